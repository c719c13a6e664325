package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"menuqr-service/internal/model"
	"menuqr-service/internal/pricing"
	"menuqr-service/pkg/logger"
	"menuqr-service/prometheus"
)

// MenuHandler implements the vendor-scoped menu catalog endpoints
type MenuHandler struct {
	db *gorm.DB
}

func NewMenuHandler(db *gorm.DB) *MenuHandler {
	return &MenuHandler{db: db}
}

// pricedMenuItem is the wire shape of a menu item with the vendor's discount
// applied. The dashboard list and the public menu both go through here so the
// two views can never disagree on a price.
type pricedMenuItem struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Image    string `json:"image,omitempty"`
	pricing.Quote
}

func priceItems(items []model.MenuItem, vendor *model.Vendor) []pricedMenuItem {
	priced := make([]pricedMenuItem, 0, len(items))
	for _, item := range items {
		priced = append(priced, pricedMenuItem{
			ID:       item.ID,
			Name:     item.Name,
			Category: item.Category,
			Image:    item.Image,
			Quote:    pricing.QuoteItem(item.Price, vendor.DiscountType, vendor.DiscountValue),
		})
	}
	return priced
}

// ListMenu handles GET /api/vendor/menu. Each item carries its effective
// price and savings, which is the dashboard preview of the discount.
func (h *MenuHandler) ListMenu(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordMenuOperation("list")

	id, ok := vendorID(c)
	if !ok {
		prometheus.RecordAuthError("missing_vendor_context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var vendor model.Vendor
	if result := h.db.First(&vendor, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "vendor not found"})
	}

	var items []model.MenuItem
	if result := h.db.Where("vendor_id = ?", id).Order("id").Find(&items); result.Error != nil {
		log.Error("Failed to list menu items", zap.Uint("vendor_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve menu"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"items": priceItems(items, &vendor),
	})
}

// AddItem handles POST /api/vendor/menu
func (h *MenuHandler) AddItem(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordMenuOperation("add")

	id, ok := vendorID(c)
	if !ok {
		prometheus.RecordAuthError("missing_vendor_context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Category string  `json:"category"`
		Image    string  `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid menu item request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" || req.Category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and category are required"})
	}
	if req.Price <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be greater than zero"})
	}

	item := model.MenuItem{
		VendorID: id,
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		Image:    req.Image,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := h.db.Create(&item); result.Error != nil {
		log.Error("Failed to create menu item",
			zap.Uint("vendor_id", id),
			zap.String("name", req.Name),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to add item"})
	}

	log.Info("Menu item added",
		zap.Uint("vendor_id", id),
		zap.Uint("item_id", item.ID),
		zap.String("name", item.Name))
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "item": item})
}

// UpdateItem handles PUT /api/vendor/menu/:id with partial field updates
func (h *MenuHandler) UpdateItem(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordMenuOperation("update")

	id, ok := vendorID(c)
	if !ok {
		prometheus.RecordAuthError("missing_vendor_context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		Name     *string  `json:"name"`
		Price    *float64 `json:"price"`
		Category *string  `json:"category"`
		Image    *string  `json:"image"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	var item model.MenuItem
	result := h.db.Where("id = ? AND vendor_id = ?", c.Param("id"), id).First(&item)
	if result.Error != nil {
		log.Warn("Menu item not found for update",
			zap.Uint("vendor_id", id),
			zap.String("item_id", c.Param("id")))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be greater than zero"})
		}
		item.Price = *req.Price
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Image != nil {
		item.Image = *req.Image
	}

	if err := h.db.Save(&item).Error; err != nil {
		log.Error("Failed to update menu item", zap.Uint("item_id", item.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update item"})
	}

	log.Info("Menu item updated", zap.Uint("vendor_id", id), zap.Uint("item_id", item.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Item updated successfully", "item": item})
}

// DeleteItem handles DELETE /api/vendor/menu/:id
func (h *MenuHandler) DeleteItem(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordMenuOperation("delete")

	id, ok := vendorID(c)
	if !ok {
		prometheus.RecordAuthError("missing_vendor_context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := h.db.Where("vendor_id = ?", id).Delete(&model.MenuItem{}, c.Param("id"))
	if result.Error != nil {
		log.Error("Failed to delete menu item",
			zap.Uint("vendor_id", id),
			zap.String("item_id", c.Param("id")),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete item"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
	}

	log.Info("Menu item deleted", zap.Uint("vendor_id", id), zap.String("item_id", c.Param("id")))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
