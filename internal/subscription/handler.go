package subscription

import (
	"errors"
	"net/http"

	"passhub/internal/auth"
	"passhub/internal/logger"
	"passhub/internal/metrics"
	"passhub/internal/product"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo        Repository
	productRepo product.Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		repo:        NewRepository(db),
		productRepo: product.NewRepository(db),
	}
}

type Plan struct {
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Months         int                  `json:"months"`
	CreditsPerKind map[product.Kind]int `json:"credits_per_kind"`
}

func getPlans() []Plan {
	return []Plan{
		{
			Name:        "starter",
			Description: "5 sessions and 5 videos per month",
			Months:      1,
			CreditsPerKind: map[product.Kind]int{
				product.KindSession: 5,
				product.KindVideo:   5,
			},
		},
		{
			Name:        "plus",
			Description: "10 sessions, 10 videos and 2 courses per month",
			Months:      1,
			CreditsPerKind: map[product.Kind]int{
				product.KindSession: 10,
				product.KindVideo:   10,
				product.KindCourse:  2,
			},
		},
		{
			Name:        "annual",
			Description: "20 of everything, billed yearly",
			Months:      12,
			CreditsPerKind: map[product.Kind]int{
				product.KindSession: 20,
				product.KindVideo:   20,
				product.KindCourse:  20,
			},
		},
	}
}

func findPlan(name string) (Plan, error) {
	for _, p := range getPlans() {
		if p.Name == name {
			return p, nil
		}
	}
	return Plan{}, errors.New("unknown plan")
}

// ListPlans godoc
// @Summary      List subscription plans
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Plan
// @Router       /plans [get]
func (h *Handler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, getPlans())
}

// Create godoc
// @Summary      Create subscription
// @Description  Subscribes the user to a plan covering the listed products.
// @Tags         subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateSubscriptionRequest  true  "Subscription data"
// @Success      201      {object}  CreateSubscriptionResponse
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /subscriptions [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := findPlan(req.Plan)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown plan"})
		return
	}

	ctx := c.Request.Context()

	allowed := make(map[product.Kind][]int)
	for _, externalID := range req.ProductIDs {
		p, err := h.productRepo.GetByExternalID(ctx, externalID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown product: " + externalID})
			return
		}
		if _, covered := plan.CreditsPerKind[p.Kind]; !covered {
			c.JSON(http.StatusBadRequest, gin.H{"error": "plan does not cover product type " + string(p.Kind)})
			return
		}
		allowed[p.Kind] = append(allowed[p.Kind], p.ID)
	}

	credits := make([]CreditLine, 0, len(plan.CreditsPerKind))
	for kind, count := range plan.CreditsPerKind {
		credits = append(credits, CreditLine{ProductKind: kind, ProductCredits: count})
	}

	sub, err := h.repo.Create(ctx, userID, plan.Name, plan.Months, credits, allowed)
	if err != nil {
		logger.Errorf("Failed to create subscription for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create subscription"})
		return
	}
	logger.Infof("Subscription created: Plan=%s, User=%d", plan.Name, userID)
	metrics.RecordSubscription(plan.Name)

	lines, err := h.repo.CreditsFor(ctx, sub.ID)
	if err != nil {
		lines = nil
	}

	c.JSON(http.StatusCreated, CreateSubscriptionResponse{
		Subscription: sub,
		Credits:      lines,
	})
}

// ListMy godoc
// @Summary      List my subscriptions
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Subscription
// @Failure      500  {object}  gin.H
// @Router       /subscriptions [get]
func (h *Handler) ListMy(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	subs, err := h.repo.ListActiveByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load subscriptions"})
		return
	}

	c.JSON(http.StatusOK, subs)
}
