package checkout

import (
	"context"
	"errors"
	"time"

	"passhub/internal/logger"
	"passhub/internal/metrics"
	"passhub/internal/order"
	"passhub/internal/pass"
	"passhub/internal/product"
	"passhub/internal/subscription"
	"passhub/internal/user"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrPaymentNotFound = errors.New("no pending payment for this order")
)

type Service interface {
	Instruments(ctx context.Context, userID int, productExternalID string) (*Inventory, error)
	Checkout(ctx context.Context, userID int, productExternalID string, req CheckoutRequest) (*Result, error)
	ConfirmPayment(ctx context.Context, userID int, orderExternalID string) (*Result, error)
}

type service struct {
	productRepo product.Repository
	passRepo    pass.Repository
	subRepo     subscription.Repository
	orderRepo   order.Repository
	userRepo    user.Repository
	emitter     *Emitter
}

func NewService(
	productRepo product.Repository,
	passRepo pass.Repository,
	subRepo subscription.Repository,
	orderRepo order.Repository,
	userRepo user.Repository,
	emitter *Emitter,
) Service {
	return &service{
		productRepo: productRepo,
		passRepo:    passRepo,
		subRepo:     subRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		emitter:     emitter,
	}
}

// Instruments loads the buyer's usable passes and subscription for a product.
// Unapproved users get an empty inventory with no error, and any inventory
// fetch failure degrades to the empty set so checkout can still go direct.
func (s *service) Instruments(ctx context.Context, userID int, productExternalID string) (*Inventory, error) {
	prod, err := s.productRepo.GetByExternalID(ctx, productExternalID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsApproved() {
		return &Inventory{Passes: []pass.OwnedPass{}}, nil
	}

	return s.loadInventory(ctx, userID, prod), nil
}

func (s *service) loadInventory(ctx context.Context, userID int, prod *product.Product) *Inventory {
	inv := &Inventory{Passes: []pass.OwnedPass{}}

	passes, err := s.passRepo.UsableForProduct(ctx, userID, prod.ID)
	if err != nil {
		logger.Error("loading usable passes failed", "user_id", userID, "product", prod.ExternalID, "error", err)
	} else {
		inv.Passes = passes
	}

	sub, err := s.subRepo.UsableForProduct(ctx, userID, prod.Kind, prod.ID)
	if err != nil {
		if !errors.Is(err, subscription.ErrNoUsableSubscription) {
			logger.Error("loading usable subscription failed", "user_id", userID, "product", prod.ExternalID, "error", err)
		}
	} else {
		inv.Subscription = sub
	}

	return inv
}

// Checkout runs one purchase attempt end to end: resolve the instrument,
// issue the order call (two sequential calls for buy-pass-then-redeem), and
// classify the outcome. Business failures come back inside the Result; an
// error return means the product could not be resolved at all.
func (s *service) Checkout(ctx context.Context, userID int, productExternalID string, req CheckoutRequest) (*Result, error) {
	prod, err := s.productRepo.GetByExternalID(ctx, productExternalID)
	if err != nil {
		return nil, ErrProductNotFound
	}

	if !prod.AvailableAt(time.Now()) {
		return s.fail(userID, prod, "", errors.New("this "+prod.Kind.Noun()+" is no longer available")), nil
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsApproved() {
		return s.fail(userID, prod, "", order.ErrUnapprovedUser), nil
	}

	inv := s.loadInventory(ctx, userID, prod)

	choice, err := s.resolveChoice(ctx, userID, prod, req, inv)
	if err != nil {
		return s.fail(userID, prod, "", err), nil
	}

	sel := SelectInstrument(inv.Subscription, inv.Passes, choice, prod.PriceCents)

	s.emitter.Emit(Event{State: StateSubmitting, UserID: userID, Product: prod, Instrument: sel.Kind})

	switch sel.Kind {
	case InstrumentSubscription:
		return s.checkoutWithSubscription(ctx, userID, prod, sel), nil
	case InstrumentOwnedPass:
		return s.checkoutWithOwnedPass(ctx, userID, prod, sel, req), nil
	case InstrumentBuyPassThenRedeem:
		return s.checkoutBuyPassThenRedeem(ctx, userID, prod, sel, req), nil
	default:
		return s.checkoutDirect(ctx, userID, prod, sel, req), nil
	}
}

// resolveChoice turns the request's explicit selection into a Choice backed
// by loaded inventory. A pass to buy must cover the product and must not be
// owned already.
func (s *service) resolveChoice(ctx context.Context, userID int, prod *product.Product, req CheckoutRequest, inv *Inventory) (Choice, error) {
	switch req.Instrument {
	case ChoiceOwnedPass:
		for i := range inv.Passes {
			if inv.Passes[i].PassOrderID == req.PassOrderID {
				return Choice{Kind: ChoiceOwnedPass, OwnedPass: &inv.Passes[i]}, nil
			}
		}
		return Choice{}, errors.New("selected pass is not usable for this product")

	case ChoicePassToBuy:
		ps, err := s.passRepo.GetByExternalID(ctx, req.PassID)
		if err != nil {
			return Choice{}, errors.New("selected pass not found")
		}
		if !passCoversProduct(ps, prod.ExternalID) {
			return Choice{}, errors.New("selected pass cannot be redeemed for this product")
		}
		owned, err := s.passRepo.HasConfirmedOwnedPass(ctx, userID, ps.ID)
		if err != nil {
			return Choice{}, err
		}
		if owned {
			return Choice{}, order.ErrDuplicatePassOrder
		}
		return Choice{Kind: ChoicePassToBuy, PassToBuy: ps}, nil

	default:
		return Choice{Kind: ChoiceNone}, nil
	}
}

func passCoversProduct(ps *pass.Pass, productExternalID string) bool {
	for _, id := range ps.ProductIDs {
		if id == productExternalID {
			return true
		}
	}
	return false
}

// createParams maps a built wire payload onto the order row to persist, so
// the payload builder stays the single source of the per-instrument shape.
func createParams(userID int, prod *product.Product, payload OrderPayload, status order.Status, amountCents int64) order.CreateParams {
	return order.CreateParams{
		UserID:           userID,
		ProductID:        prod.ID,
		ProductKind:      prod.Kind,
		PaymentSource:    payload.PaymentSource,
		SourceID:         optional(payload.SourceID),
		Status:           status,
		AmountCents:      amountCents,
		Currency:         payload.Currency,
		CouponCode:       optional(payload.CouponCode),
		TimezoneLocation: optional(payload.TimezoneLocation),
	}
}

func (s *service) checkoutDirect(ctx context.Context, userID int, prod *product.Product, sel Selection, req CheckoutRequest) *Result {
	payload := BuildOrderPayload(prod, sel, PayloadOptions{
		CouponCode:       req.CouponCode,
		TimezoneLocation: req.TimezoneLocation,
		AmountCents:      req.AmountCents,
	})

	// The builder sets an amount only for pay-what-you-want products.
	amount := prod.PriceCents
	if payload.AmountCents != nil {
		if *payload.AmountCents < prod.PriceCents {
			return s.fail(userID, prod, sel.Kind, errors.New("amount is below the minimum price"))
		}
		amount = *payload.AmountCents
	}

	status := order.StatusConfirmed
	if amount > 0 {
		status = order.StatusPendingPayment
	}

	o, err := s.orderRepo.Create(ctx, createParams(userID, prod, payload, status, amount))
	if err != nil {
		return s.fail(userID, prod, sel.Kind, err)
	}
	metrics.RecordOrder(string(o.PaymentSource), string(o.Status))

	if amount > 0 {
		return s.paymentRequired(userID, prod, sel.Kind, o.ExternalID, "order", nil)
	}
	return s.completed(userID, prod, sel, o.ExternalID, "")
}

func (s *service) checkoutWithSubscription(ctx context.Context, userID int, prod *product.Product, sel Selection) *Result {
	payload := BuildOrderPayload(prod, sel, PayloadOptions{})

	o, err := s.orderRepo.Create(ctx, createParams(userID, prod, payload, order.StatusConfirmed, 0))
	if err != nil {
		return s.fail(userID, prod, sel.Kind, err)
	}
	metrics.RecordOrder(string(o.PaymentSource), string(o.Status))

	if err := s.subRepo.ConsumeCredit(ctx, sel.Subscription.Subscription.ID, prod.Kind); err != nil {
		// Order already exists; surface nothing to the buyer.
		logger.Error("consuming subscription credit failed", "order", o.ExternalID, "error", err)
	}

	return s.completed(userID, prod, sel, o.ExternalID, "")
}

func (s *service) checkoutWithOwnedPass(ctx context.Context, userID int, prod *product.Product, sel Selection, req CheckoutRequest) *Result {
	booked, err := s.orderRepo.UserHasConfirmedOrder(ctx, userID, prod.ID)
	if err != nil {
		return s.fail(userID, prod, sel.Kind, err)
	}
	if booked {
		return s.fail(userID, prod, sel.Kind, order.DuplicateOrderError(prod.Kind))
	}

	if err := s.passRepo.RedeemCredit(ctx, sel.OwnedPass.PassOrderID); err != nil {
		return s.fail(userID, prod, sel.Kind, err)
	}
	metrics.RecordPassCreditSpent()

	payload := BuildOrderPayload(prod, sel, PayloadOptions{TimezoneLocation: req.TimezoneLocation})
	o, err := s.orderRepo.Create(ctx, createParams(userID, prod, payload, order.StatusConfirmed, 0))
	if err != nil {
		return s.fail(userID, prod, sel.Kind, err)
	}
	metrics.RecordOrder(string(o.PaymentSource), string(o.Status))

	return s.completed(userID, prod, sel, o.ExternalID, sel.OwnedPass.PassOrderID)
}

// checkoutBuyPassThenRedeem is the two-step flow: step A buys the pass, step
// B redeems it for the product. Step B runs only when step A needed no
// payment; otherwise the attempt hands off to the payment flow and the
// redemption is recorded as a follow-up to run on payment confirmation.
func (s *service) checkoutBuyPassThenRedeem(ctx context.Context, userID int, prod *product.Product, sel Selection, req CheckoutRequest) *Result {
	ps := sel.PassToBuy

	if ps.PriceCents > 0 {
		owned, err := s.passRepo.CreateOwnedPass(ctx, ps.ID, userID, pass.StatusPendingPayment, &prod.ID)
		if err != nil {
			return s.fail(userID, prod, sel.Kind, err)
		}
		followUp := &order.FollowUpBookingInfo{ProductType: prod.Kind, ProductID: prod.ExternalID}
		res := s.paymentRequired(userID, prod, sel.Kind, owned.PassOrderID, "pass_order", followUp)
		purchase := BuildPassPurchasePayload(ps, req.CouponCode)
		res.PassPurchase = &purchase
		return res
	}

	owned, err := s.passRepo.CreateOwnedPass(ctx, ps.ID, userID, pass.StatusConfirmed, nil)
	if err != nil {
		return s.fail(userID, prod, sel.Kind, err)
	}

	sel.OwnedPass = owned
	return s.redeemFreshPass(ctx, userID, prod, sel, req.TimezoneLocation)
}

// redeemFreshPass is step B: spend one credit of a just-confirmed pass on the
// product it was bought for.
func (s *service) redeemFreshPass(ctx context.Context, userID int, prod *product.Product, sel Selection, timezoneLocation string) *Result {
	if err := s.passRepo.RedeemCredit(ctx, sel.OwnedPass.PassOrderID); err != nil {
		return s.fail(userID, prod, sel.Kind, err)
	}
	metrics.RecordPassCreditSpent()

	payload := BuildOrderPayload(prod, sel, PayloadOptions{TimezoneLocation: timezoneLocation})
	o, err := s.orderRepo.Create(ctx, createParams(userID, prod, payload, order.StatusConfirmed, 0))
	if err != nil {
		return s.fail(userID, prod, sel.Kind, err)
	}
	metrics.RecordOrder(string(o.PaymentSource), string(o.Status))

	return s.completed(userID, prod, sel, o.ExternalID, sel.OwnedPass.PassOrderID)
}

// ConfirmPayment is the gateway callback. It confirms either a pending
// product order or a pending pass order; a confirmed pass order with a
// recorded follow-up booking immediately redeems the pass for that product.
// Ownership is enforced by the confirm statements themselves, so a stranger's
// order id reads as not found and flips nothing.
func (s *service) ConfirmPayment(ctx context.Context, userID int, orderExternalID string) (*Result, error) {
	o, err := s.orderRepo.Confirm(ctx, userID, orderExternalID)
	if err == nil {
		prod, perr := s.productRepo.GetByID(ctx, o.ProductID)
		if perr != nil {
			return nil, perr
		}
		metrics.RecordOrder(string(o.PaymentSource), string(o.Status))
		return s.completed(userID, prod, Selection{Kind: InstrumentDirect}, o.ExternalID, ""), nil
	}
	if !errors.Is(err, order.ErrOrderNotFound) {
		return nil, err
	}

	owned, err := s.passRepo.ConfirmOwnedPass(ctx, userID, orderExternalID)
	if err != nil {
		return nil, ErrPaymentNotFound
	}

	if owned.FollowUpProduct == nil {
		return &Result{
			State:             StateCompleted,
			IsSuccessfulOrder: true,
			Instrument:        InstrumentBuyPassThenRedeem,
			PassOrderID:       owned.PassOrderID,
		}, nil
	}

	prod, err := s.productRepo.GetByID(ctx, *owned.FollowUpProduct)
	if err != nil {
		return nil, err
	}

	metrics.RecordFollowUpBooking()
	sel := Selection{Kind: InstrumentBuyPassThenRedeem, OwnedPass: owned}
	res := s.redeemFreshPass(ctx, userID, prod, sel, "")
	res.FollowUp = &order.FollowUpBookingInfo{ProductType: prod.Kind, ProductID: prod.ExternalID}
	return res, nil
}

func (s *service) completed(userID int, prod *product.Product, sel Selection, orderID, passOrderID string) *Result {
	notice := SuccessNotice(prod.Kind, sel)
	metrics.RecordCheckout(string(sel.Kind), "completed")
	metrics.RecordNotice(string(notice))
	s.emitter.Emit(Event{
		State:      StateCompleted,
		UserID:     userID,
		Product:    prod,
		Instrument: sel.Kind,
		Notice:     notice,
		OrderID:    orderID,
	})
	return &Result{
		State:             StateCompleted,
		IsSuccessfulOrder: true,
		Instrument:        sel.Kind,
		OrderID:           orderID,
		PassOrderID:       passOrderID,
		Notice:            notice,
	}
}

func (s *service) paymentRequired(userID int, prod *product.Product, kind InstrumentKind, paymentOrderID, paymentOrderType string, followUp *order.FollowUpBookingInfo) *Result {
	metrics.RecordCheckout(string(kind), "payment_required")
	s.emitter.Emit(Event{
		State:      StatePaymentRequired,
		UserID:     userID,
		Product:    prod,
		Instrument: kind,
		OrderID:    paymentOrderID,
	})
	res := &Result{
		State:             StatePaymentRequired,
		IsSuccessfulOrder: true,
		Instrument:        kind,
		PaymentRequired:   true,
		PaymentOrderID:    paymentOrderID,
		PaymentOrderType:  paymentOrderType,
		FollowUp:          followUp,
	}
	if paymentOrderType == "pass_order" {
		res.PassOrderID = paymentOrderID
	} else {
		res.OrderID = paymentOrderID
	}
	return res
}

func (s *service) fail(userID int, prod *product.Product, kind InstrumentKind, err error) *Result {
	failure := ClassifyFailure(err)
	outcome := "failed"
	if failure.Kind == ErrorSuppressed {
		outcome = "suppressed"
	}
	metrics.RecordCheckout(string(kind), outcome)
	s.emitter.Emit(Event{
		State:      StateFailed,
		UserID:     userID,
		Product:    prod,
		Instrument: kind,
		Failure:    &failure,
	})
	return &Result{State: StateFailed, Instrument: kind, Failure: &failure}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
