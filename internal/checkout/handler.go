package checkout

import (
	"errors"
	"net/http"

	"passhub/internal/auth"
	"passhub/internal/order"
	"passhub/internal/pass"
	"passhub/internal/product"
	"passhub/internal/subscription"
	"passhub/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB, emitter *Emitter) *Handler {
	return &Handler{
		service: NewService(
			product.NewRepository(db),
			pass.NewRepository(db),
			subscription.NewRepository(db),
			order.NewRepository(db),
			user.NewRepository(db),
			emitter,
		),
	}
}

// GetInstruments godoc
// @Summary      List usable payment instruments
// @Description  Returns the caller's usable passes and subscription for a product.
// @Tags         checkout
// @Security     BearerAuth
// @Produce      json
// @Param        productID  path      string  true  "Product external ID"
// @Success      200        {object}  Inventory
// @Failure      404        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /products/{productID}/instruments [get]
func (h *Handler) GetInstruments(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	inv, err := h.service.Instruments(c.Request.Context(), userID, c.Param("productID"))
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load instruments"})
		return
	}

	c.JSON(http.StatusOK, inv)
}

// Checkout godoc
// @Summary      Purchase a product
// @Description  Resolves the payment instrument and creates the order. Returns 201 when the purchase completed, 202 when payment collection is still pending.
// @Tags         checkout
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        productID  path      string           true   "Product external ID"
// @Param        request    body      CheckoutRequest  false  "Instrument choice and purchase options"
// @Success      201        {object}  Result
// @Success      202        {object}  Result
// @Failure      400        {object}  Result
// @Failure      404        {object}  gin.H
// @Failure      409        {object}  Result
// @Failure      500        {object}  gin.H
// @Router       /products/{productID}/checkout [post]
func (h *Handler) Checkout(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.Checkout(c.Request.Context(), userID, c.Param("productID"), req)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
		return
	}

	if res.Failure != nil && res.Failure.Kind == ErrorSuppressed {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(statusForResult(res), res)
}

// ConfirmPayment godoc
// @Summary      Confirm a pending payment
// @Description  Gateway callback confirming a pending product or pass order. A confirmed pass order with a recorded follow-up booking redeems the pass immediately.
// @Tags         checkout
// @Security     BearerAuth
// @Produce      json
// @Param        orderID  path      string  true  "Order or pass order external ID"
// @Success      200      {object}  Result
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  Result
// @Failure      500      {object}  gin.H
// @Router       /orders/{orderID}/confirm-payment [post]
func (h *Handler) ConfirmPayment(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	res, err := h.service.ConfirmPayment(c.Request.Context(), userID, c.Param("orderID"))
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No pending payment for this order"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm payment"})
		return
	}

	if res.State == StateFailed {
		c.JSON(statusForResult(res), res)
		return
	}
	c.JSON(http.StatusOK, res)
}

// statusForResult maps a checkout outcome to its HTTP status. Suppressed
// failures never reach this: the handler answers them with a bare 204.
func statusForResult(res *Result) int {
	switch res.State {
	case StateCompleted:
		return http.StatusCreated
	case StatePaymentRequired:
		return http.StatusAccepted
	case StateFailed:
		if res.Failure == nil {
			return http.StatusInternalServerError
		}
		switch res.Failure.Kind {
		case ErrorAlreadyBookedProduct, ErrorAlreadyBookedPass:
			return http.StatusConflict
		case ErrorInsufficientCredit:
			return http.StatusPaymentRequired
		default:
			return http.StatusBadRequest
		}
	default:
		return http.StatusOK
	}
}
