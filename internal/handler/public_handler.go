package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"menuqr-service/internal/model"
	"menuqr-service/pkg/logger"
	"menuqr-service/prometheus"
)

// PublicHandler implements the anonymous customer-facing endpoints
type PublicHandler struct {
	db      *gorm.DB
	baseURL string
}

// NewPublicHandler creates the public handler. baseURL is the externally
// reachable address encoded into QR codes.
func NewPublicHandler(db *gorm.DB, baseURL string) *PublicHandler {
	return &PublicHandler{db: db, baseURL: baseURL}
}

// publicVendor is the vendor view exposed to anonymous visitors: display
// fields and discount configuration, never credentials
type publicVendor struct {
	RestaurantName string  `json:"restaurant_name"`
	Description    string  `json:"description"`
	Logo           string  `json:"logo"`
	Address        string  `json:"address"`
	Phone          string  `json:"phone"`
	DiscountType   string  `json:"discount_type"`
	DiscountValue  float64 `json:"discount_value"`
}

// GetMenu handles GET /public/menu?restaurant=<name>. Prices are rendered
// through the same pricing path as the vendor dashboard.
func (h *PublicHandler) GetMenu(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.PublicMenuCounter.Inc()

	restaurantName := c.QueryParam("restaurant")
	if restaurantName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "restaurant name is required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var vendor model.Vendor
	result := h.db.Where("restaurant_name = ?", restaurantName).First(&vendor)
	if result.Error != nil {
		log.Warn("Restaurant not found", zap.String("restaurant", restaurantName))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
	}

	var items []model.MenuItem
	if result := h.db.Where("vendor_id = ?", vendor.ID).Order("id").Find(&items); result.Error != nil {
		log.Error("Failed to load public menu",
			zap.Uint("vendor_id", vendor.ID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve menu"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"items": priceItems(items, &vendor),
		"vendor": publicVendor{
			RestaurantName: vendor.RestaurantName,
			Description:    vendor.Description,
			Logo:           vendor.Logo,
			Address:        vendor.Address,
			Phone:          vendor.Phone,
			DiscountType:   vendor.DiscountType,
			DiscountValue:  vendor.DiscountValue,
		},
	})
}

// GetQR handles GET /public/qr?restaurant=<name> and serves a PNG QR code
// pointing at the restaurant's public menu page
func (h *PublicHandler) GetQR(c echo.Context) error {
	log := logger.FromContext(c)

	restaurantName := c.QueryParam("restaurant")
	if restaurantName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "restaurant name is required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var vendor model.Vendor
	if result := h.db.Where("restaurant_name = ?", restaurantName).First(&vendor); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
	}

	target := h.baseURL + "/restaurant/" + url.PathEscape(restaurantName)
	png, err := qrcode.Encode(target, qrcode.Medium, 256)
	if err != nil {
		log.Error("Failed to generate QR code",
			zap.String("restaurant", restaurantName),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate QR code"})
	}

	prometheus.QRGeneratedCounter.Inc()
	log.Info("QR code generated", zap.String("restaurant", restaurantName))
	return c.Blob(http.StatusOK, "image/png", png)
}
