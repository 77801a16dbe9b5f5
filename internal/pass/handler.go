package pass

import (
	"errors"
	"net/http"

	"passhub/internal/auth"
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

// CreatePass godoc
// @Summary      Create pass
// @Description  Creates a credit pass redeemable against the listed products.
// @Tags         creator
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreatePassRequest  true  "Pass data"
// @Success      201      {object}  Pass
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /creator/passes [post]
func (h *Handler) CreatePass(c *gin.Context) {
	creatorID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreatePassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	productIDs := make([]int, 0, len(req.ProductIDs))
	for _, externalID := range req.ProductIDs {
		p, err := h.productRepo.GetByExternalID(ctx, externalID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown product: " + externalID})
			return
		}
		if p.CreatorID != creatorID {
			c.JSON(http.StatusForbidden, gin.H{"error": "can only attach own products to a pass"})
			return
		}
		productIDs = append(productIDs, p.ID)
	}

	created, err := h.repo.CreatePass(ctx, &Pass{
		CreatorID:    creatorID,
		Name:         req.Name,
		PriceCents:   req.PriceCents,
		Currency:     req.Currency,
		ClassCount:   req.ClassCount,
		Limited:      req.Limited,
		ValidityDays: req.ValidityDays,
	}, productIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create pass"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListMyPasses godoc
// @Summary      List owned passes
// @Description  Returns passes purchased by the authenticated user.
// @Tags         passes
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   OwnedPass
// @Failure      500  {object}  gin.H
// @Router       /passes/my [get]
func (h *Handler) ListMyPasses(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	owned, err := h.repo.ListOwnedByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch passes"})
		return
	}

	c.JSON(http.StatusOK, owned)
}

// ListCreatorPasses godoc
// @Summary      List creator passes
// @Description  Returns passes defined by the authenticated creator.
// @Tags         creator
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Pass
// @Failure      500  {object}  gin.H
// @Router       /creator/passes [get]
func (h *Handler) ListCreatorPasses(c *gin.Context) {
	creatorID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	passes, err := h.repo.ListByCreator(c.Request.Context(), creatorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch passes"})
		return
	}

	c.JSON(http.StatusOK, passes)
}

// ListPassesForProduct godoc
// @Summary      List passes for product
// @Description  Returns purchasable passes redeemable against the given product.
// @Tags         passes
// @Security     BearerAuth
// @Produce      json
// @Param        productID  path      string  true  "Product external ID"
// @Success      200        {array}   Pass
// @Failure      404        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /products/{productID}/passes [get]
func (h *Handler) ListPassesForProduct(c *gin.Context) {
	p, err := h.productRepo.GetByExternalID(c.Request.Context(), c.Param("productID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	passes, err := h.repo.ListForProduct(c.Request.Context(), p.ID)
	if err != nil && !errors.Is(err, ErrPassNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch passes"})
		return
	}

	c.JSON(http.StatusOK, passes)
}
