package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shelfprice/collector/internal/domain"
)

// ProductLookup is the part of the product service the API exposes
type ProductLookup interface {
	Price(ctx context.Context, id string) (domain.PriceRecord, error)
	GlutenFree(ctx context.Context, id string) (domain.GlutenFreeRecord, error)
	Nutrition(ctx context.Context, id string) (domain.NutritionRecord, error)
	ProductURL(ctx context.Context, id string) (domain.PriceRecord, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	products ProductLookup
}

// NewHandler creates a new HTTP handler
func NewHandler(products ProductLookup) *Handler {
	return &Handler{products: products}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "shelfprice",
		"version": "1.0.0",
	})
}

// GetPrice classifies the price of a Walmart or Kroger product
func (h *Handler) GetPrice(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	rec, err := h.products.Price(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetGlutenFree labels a Walmart product as gluten free or not
func (h *Handler) GetGlutenFree(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	rec, err := h.products.GlutenFree(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetNutrition returns the macros of a Walmart product
func (h *Handler) GetNutrition(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	rec, err := h.products.Nutrition(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetProductURL resolves the product page of a Walmart product
func (h *Handler) GetProductURL(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	rec, err := h.products.ProductURL(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": rec.ID, "url": rec.URL})
}

func productID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidIdentifier.Error()})
		return "", false
	}
	return id, true
}

// writeError maps fatal lookup errors to status codes
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrMissingCredentials):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrConnectionReset),
		errors.Is(err, domain.ErrHTTPFailure),
		errors.Is(err, domain.ErrAuthFailed),
		errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
