package product

import (
	"net/http"
	"time"

	"passhub/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// ListProducts godoc
// @Summary      List products
// @Description  Returns all currently available products.
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Product
// @Failure      500  {object}  gin.H
// @Router       /products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.repo.ListPublic(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// GetProduct godoc
// @Summary      Get product
// @Description  Returns a single product by its external id.
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        productID  path      string  true  "Product external ID"
// @Success      200        {object}  Product
// @Failure      404        {object}  gin.H
// @Router       /products/{productID} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.repo.GetByExternalID(c.Request.Context(), c.Param("productID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// CreateProduct godoc
// @Summary      Create product
// @Description  Creates a session, video or course for the authenticated creator.
// @Tags         creator
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateProductRequest  true  "Product data"
// @Success      201      {object}  Product
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /creator/products [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	creatorID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !req.Kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be SESSION, VIDEO or COURSE"})
		return
	}

	p := &Product{
		CreatorID:      creatorID,
		Kind:           req.Kind,
		Title:          req.Title,
		Description:    req.Description,
		PriceCents:     req.PriceCents,
		Currency:       req.Currency,
		PayWhatYouWant: req.PayWhatYouWant,
	}

	if req.ValidFrom != "" {
		from, err := time.Parse(time.RFC3339, req.ValidFrom)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid valid_from format, use RFC3339"})
			return
		}
		p.ValidFrom = &from
	}

	if req.ValidUntil != "" {
		until, err := time.Parse(time.RFC3339, req.ValidUntil)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid valid_until format, use RFC3339"})
			return
		}
		p.ValidUntil = &until
	}

	created, err := h.repo.Create(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListMyProducts godoc
// @Summary      List creator products
// @Description  Returns all products of the authenticated creator.
// @Tags         creator
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Product
// @Failure      500  {object}  gin.H
// @Router       /creator/products [get]
func (h *Handler) ListMyProducts(c *gin.Context) {
	creatorID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	products, err := h.repo.ListByCreator(c.Request.Context(), creatorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}
