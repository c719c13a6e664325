package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"menuqr-service/internal/model"
	"menuqr-service/pkg/logger"
	"menuqr-service/prometheus"
)

// VendorHandler implements the vendor profile endpoints
type VendorHandler struct {
	db *gorm.DB
}

func NewVendorHandler(db *gorm.DB) *VendorHandler {
	return &VendorHandler{db: db}
}

// vendorID extracts the authenticated vendor from the echo context, set by
// the JWT middleware
func vendorID(c echo.Context) (uint, bool) {
	id, ok := c.Get("vendor_id").(uint)
	return id, ok
}

// GetProfile handles GET /api/vendor/profile
func (h *VendorHandler) GetProfile(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordVendorOperation("profile_get")

	id, ok := vendorID(c)
	if !ok {
		prometheus.RecordAuthError("missing_vendor_context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var vendor model.Vendor
	if result := h.db.First(&vendor, id); result.Error != nil {
		log.Error("Vendor not found", zap.Uint("vendor_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "vendor not found"})
	}

	return c.JSON(http.StatusOK, echo.Map{"vendor": vendor})
}

// UpdateProfile handles PUT /api/vendor/profile with partial updates. Only
// the fields present in the request body are touched.
func (h *VendorHandler) UpdateProfile(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordVendorOperation("profile_update")

	id, ok := vendorID(c)
	if !ok {
		prometheus.RecordAuthError("missing_vendor_context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		RestaurantName *string  `json:"restaurant_name"`
		Phone          *string  `json:"phone"`
		Address        *string  `json:"address"`
		Description    *string  `json:"description"`
		Logo           *string  `json:"logo"`
		DiscountType   *string  `json:"discount_type"`
		DiscountValue  *float64 `json:"discount_value"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse profile update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	updates := map[string]interface{}{}
	if req.RestaurantName != nil {
		updates["restaurant_name"] = *req.RestaurantName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Logo != nil {
		updates["logo"] = *req.Logo
	}
	if req.DiscountType != nil {
		if *req.DiscountType != model.DiscountPercentage && *req.DiscountType != model.DiscountFixed {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid discount type"})
		}
		updates["discount_type"] = *req.DiscountType
	}
	if req.DiscountValue != nil {
		// Negative values are rejected; a percentage above 100 is not,
		// matching the client-side-only upper bound check
		if *req.DiscountValue < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "discount value must not be negative"})
		}
		updates["discount_value"] = *req.DiscountValue
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if len(updates) > 0 {
		if err := h.db.Model(&model.Vendor{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			log.Error("Failed to update vendor profile", zap.Uint("vendor_id", id), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update profile"})
		}
	}

	var vendor model.Vendor
	if result := h.db.First(&vendor, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "vendor not found"})
	}

	log.Info("Vendor profile updated", zap.Uint("vendor_id", id))
	return c.JSON(http.StatusOK, echo.Map{"vendor": vendor, "message": "Profile updated successfully"})
}

// UpdateRestaurantName handles POST /api/vendor/restaurant-name, the
// dedicated rename used during onboarding
func (h *VendorHandler) UpdateRestaurantName(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordVendorOperation("restaurant_rename")

	id, ok := vendorID(c)
	if !ok {
		prometheus.RecordAuthError("missing_vendor_context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		RestaurantName string `json:"restaurant_name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.RestaurantName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "restaurant name is required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	var vendor model.Vendor
	if result := h.db.First(&vendor, id); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "vendor not found"})
	}

	vendor.RestaurantName = req.RestaurantName
	if err := h.db.Save(&vendor).Error; err != nil {
		log.Error("Failed to update restaurant name", zap.Uint("vendor_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update"})
	}

	log.Info("Restaurant renamed",
		zap.Uint("vendor_id", id),
		zap.String("restaurant_name", vendor.RestaurantName))
	return c.JSON(http.StatusOK, echo.Map{"message": "Updated successfully", "vendor": vendor})
}
