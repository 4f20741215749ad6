package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/abdul977/muahibstores/internal/catalog"
	"github.com/abdul977/muahibstores/internal/repository"
	"github.com/abdul977/muahibstores/internal/whatsapp"
	"github.com/abdul977/muahibstores/pkg/logger"
	"github.com/abdul977/muahibstores/pkg/metrics"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const msgTryAgain = "Something went wrong. Please try again."

// ProductHandler serves the storefront catalogue and the admin product screens
type ProductHandler struct {
	catalog  *catalog.Service
	whatsapp *whatsapp.Service
}

// NewProductHandler creates a product handler
func NewProductHandler(catalog *catalog.Service, whatsapp *whatsapp.Service) *ProductHandler {
	return &ProductHandler{catalog: catalog, whatsapp: whatsapp}
}

// ListProducts handles the public listing: visible products only,
// optionally narrowed by ?category=, ?q= and ?featured=true
func (h *ProductHandler) ListProducts(c echo.Context) error {
	return h.list(c, false)
}

// AdminListProducts handles the admin listing, hidden products included
func (h *ProductHandler) AdminListProducts(c echo.Context) error {
	return h.list(c, true)
}

func (h *ProductHandler) list(c echo.Context, includeHidden bool) error {
	log := logger.FromEcho(c)

	opts := catalog.ListOptions{
		IncludeHidden: includeHidden,
		Category:      c.QueryParam("category"),
		Search:        c.QueryParam("q"),
	}
	if featured := c.QueryParam("featured"); featured != "" {
		v, err := strconv.ParseBool(featured)
		if err != nil {
			log.Warn("Invalid featured parameter", zap.String("value", featured))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "featured must be true or false"})
		}
		opts.FeaturedOnly = v
	}

	products, err := h.catalog.ListProducts(c.Request().Context(), opts)
	if err != nil {
		log.Error("Failed to list products", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgTryAgain})
	}

	log.Debug("Products retrieved", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// visibleProduct loads a product for a public page. Hidden products do not exist there.
func (h *ProductHandler) visibleProduct(c echo.Context) (*catalog.Product, error) {
	id := c.Param("id")
	p, err := h.catalog.GetProductByID(c.Request().Context(), id)
	if err != nil {
		logger.FromEcho(c).Error("Failed to get product", zap.String("product_id", id), zap.Error(err))
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": msgTryAgain})
	}
	if p == nil || p.IsHidden {
		return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}
	return p, nil
}

// GetProduct handles retrieving a single visible product
func (h *ProductHandler) GetProduct(c echo.Context) error {
	p, err := h.visibleProduct(c)
	if p == nil {
		return err
	}
	metrics.RecordProductView(p.ID, p.Category)
	return c.JSON(http.StatusOK, p)
}

// ProductInquiry returns the WhatsApp inquiry message and link for a product
func (h *ProductHandler) ProductInquiry(c echo.Context) error {
	p, err := h.visibleProduct(c)
	if p == nil {
		return err
	}
	return c.JSON(http.StatusOK, h.whatsapp.Inquiry(p))
}

// ProductQRCode renders the inquiry link as a PNG QR code
func (h *ProductHandler) ProductQRCode(c echo.Context) error {
	p, err := h.visibleProduct(c)
	if p == nil {
		return err
	}
	png, err := h.whatsapp.InquiryQRCode(p)
	if err != nil {
		logger.FromEcho(c).Error("Failed to render QR code", zap.String("product_id", p.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgTryAgain})
	}
	return c.Blob(http.StatusOK, "image/png", png)
}

// ListCategories returns the categories of visible products
func (h *ProductHandler) ListCategories(c echo.Context) error {
	return h.categories(c, h.catalog.GetVisibleCategories)
}

// AdminListCategories returns every category, including those of hidden products
func (h *ProductHandler) AdminListCategories(c echo.Context) error {
	return h.categories(c, h.catalog.GetCategories)
}

func (h *ProductHandler) categories(c echo.Context, fetch func(context.Context) ([]string, error)) error {
	categories, err := fetch(c.Request().Context())
	if err != nil {
		logger.FromEcho(c).Error("Failed to list categories", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgTryAgain})
	}
	return c.JSON(http.StatusOK, categories)
}

// AdminGetProduct returns any product, hidden or not
func (h *ProductHandler) AdminGetProduct(c echo.Context) error {
	id := c.Param("id")
	p, err := h.catalog.GetProductByID(c.Request().Context(), id)
	if err != nil {
		logger.FromEcho(c).Error("Failed to get product", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgTryAgain})
	}
	if p == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}
	return c.JSON(http.StatusOK, p)
}

// CreateProduct handles creating a new product
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	log := logger.FromEcho(c)

	var req catalog.Product
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	p, err := h.catalog.CreateProduct(c.Request().Context(), req)
	if err != nil {
		return productError(c, err, req.ID)
	}

	log.Info("Product created successfully", zap.String("product_id", p.ID), zap.String("name", p.Name))
	return c.JSON(http.StatusCreated, p)
}

// UpdateProduct handles a partial update of an existing product
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var req catalog.ProductUpdate
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.String("product_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	p, err := h.catalog.UpdateProduct(c.Request().Context(), id, req)
	if err != nil {
		return productError(c, err, id)
	}

	log.Info("Product updated successfully", zap.String("product_id", id))
	return c.JSON(http.StatusOK, p)
}

// DeleteProduct handles removing a product
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id := c.Param("id")
	if err := h.catalog.DeleteProduct(c.Request().Context(), id); err != nil {
		return productError(c, err, id)
	}
	return c.NoContent(http.StatusNoContent)
}

// ToggleVisibility flips the hidden flag of one product
func (h *ProductHandler) ToggleVisibility(c echo.Context) error {
	id := c.Param("id")
	p, err := h.catalog.ToggleProductVisibility(c.Request().Context(), id)
	if err != nil {
		return productError(c, err, id)
	}
	return c.JSON(http.StatusOK, p)
}

type bulkVisibilityRequest struct {
	IDs    []string `json:"ids"`
	Hidden bool     `json:"hidden"`
}

// BulkVisibility sets the hidden flag on every listed product
func (h *ProductHandler) BulkVisibility(c echo.Context) error {
	var req bulkVisibilityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if err := h.catalog.BulkToggleVisibility(c.Request().Context(), req.IDs, req.Hidden); err != nil {
		return productError(c, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": len(req.IDs), "hidden": req.Hidden})
}

// Stats returns catalogue and storage counts
func (h *ProductHandler) Stats(c echo.Context) error {
	stats, err := h.catalog.Stats(c.Request().Context())
	if err != nil {
		logger.FromEcho(c).Error("Failed to compute stats", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgTryAgain})
	}
	return c.JSON(http.StatusOK, stats)
}

// productError maps catalogue errors to responses
func productError(c echo.Context, err error, productID string) error {
	var invalid catalog.ValidationErrors
	switch {
	case errors.As(err, &invalid):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid product", "errors": invalid})
	case errors.Is(err, catalog.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	case errors.Is(err, catalog.ErrNoProductsSelected):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Please select at least one product"})
	case errors.Is(err, repository.ErrDuplicate):
		return c.JSON(http.StatusConflict, echo.Map{"error": "Product with this ID already exists"})
	default:
		logger.FromEcho(c).Error("Product operation failed", zap.String("product_id", productID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgTryAgain})
	}
}
