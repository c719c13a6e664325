package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"menuqr-service/internal/model"
	"menuqr-service/pkg/logger"
	"menuqr-service/prometheus"
)

// AnalyticsHandler records public traffic events and serves the vendor's
// dashboard summary
type AnalyticsHandler struct {
	db *gorm.DB
}

func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db}
}

// hashData hashes client identifiers before storage; raw IPs and user
// agents never reach the database
func hashData(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// Track handles POST /public/analytics/track
func (h *AnalyticsHandler) Track(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		EventType      string `json:"event_type"`
		RestaurantName string `json:"restaurant_name"`
		Metadata       struct {
			ItemID     string `json:"item_id"`
			ItemName   string `json:"item_name"`
			ScanSource string `json:"scan_source"`
		} `json:"metadata"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.RestaurantName == "" || !model.ValidEventType(req.EventType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_type and restaurant_name are required"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	var vendor model.Vendor
	if result := h.db.Where("restaurant_name = ?", req.RestaurantName).First(&vendor); result.Error != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
	}

	event := model.AnalyticsEvent{
		VendorID:       vendor.ID,
		RestaurantName: req.RestaurantName,
		EventType:      req.EventType,
		Referrer:       c.Request().Referer(),
		ItemID:         req.Metadata.ItemID,
		ItemName:       req.Metadata.ItemName,
		ScanSource:     req.Metadata.ScanSource,
		Timestamp:      time.Now(),
	}
	if ip := c.RealIP(); ip != "" {
		event.IPHash = hashData(ip)
	}
	if ua := c.Request().UserAgent(); ua != "" {
		event.UserAgentHash = hashData(ua)
	}

	if err := h.db.Create(&event).Error; err != nil {
		log.Error("Failed to record analytics event",
			zap.String("restaurant", req.RestaurantName),
			zap.String("event_type", req.EventType),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record event"})
	}

	prometheus.RecordAnalyticsEvent(req.EventType)
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

type recentActivity struct {
	EventType  string    `json:"event_type"`
	Timestamp  time.Time `json:"timestamp"`
	ItemID     string    `json:"item_id,omitempty"`
	ItemName   string    `json:"item_name,omitempty"`
	ScanSource string    `json:"scan_source,omitempty"`
}

type dailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary handles GET /api/vendor/analytics: scan totals, unique visitors,
// conversion rate and recent activity over the last 30 days
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	log := logger.FromContext(c)

	id, ok := vendorID(c)
	if !ok {
		prometheus.RecordAuthError("missing_vendor_context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	now := time.Now()
	thirtyDaysAgo := now.AddDate(0, 0, -30)
	sevenDaysAgo := now.AddDate(0, 0, -7)

	defer prometheus.TrackDBOperation("query")(time.Now())

	var totalScans int64
	if err := h.db.Model(&model.AnalyticsEvent{}).
		Where("vendor_id = ? AND event_type = ? AND timestamp >= ?", id, model.EventScan, thirtyDaysAgo).
		Count(&totalScans).Error; err != nil {
		log.Error("Failed to count scans", zap.Uint("vendor_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load analytics"})
	}

	var uniqueVisitors int64
	if err := h.db.Model(&model.AnalyticsEvent{}).
		Where("vendor_id = ? AND event_type = ? AND timestamp >= ? AND ip_hash <> ''", id, model.EventVisit, thirtyDaysAgo).
		Distinct("ip_hash").
		Count(&uniqueVisitors).Error; err != nil {
		log.Error("Failed to count unique visitors", zap.Uint("vendor_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load analytics"})
	}

	var totalVisits, menuViews int64
	h.db.Model(&model.AnalyticsEvent{}).
		Where("vendor_id = ? AND event_type = ? AND timestamp >= ?", id, model.EventVisit, thirtyDaysAgo).
		Count(&totalVisits)
	h.db.Model(&model.AnalyticsEvent{}).
		Where("vendor_id = ? AND event_type = ? AND timestamp >= ?", id, model.EventMenuView, thirtyDaysAgo).
		Count(&menuViews)

	conversionRate := 0
	if totalVisits > 0 {
		conversionRate = int(math.Round(float64(menuViews) / float64(totalVisits) * 100))
	}

	var recent []model.AnalyticsEvent
	if err := h.db.Where("vendor_id = ? AND timestamp >= ?", id, thirtyDaysAgo).
		Order("timestamp DESC").
		Limit(10).
		Find(&recent).Error; err != nil {
		log.Error("Failed to load recent activity", zap.Uint("vendor_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load analytics"})
	}
	activity := make([]recentActivity, 0, len(recent))
	for _, e := range recent {
		activity = append(activity, recentActivity{
			EventType:  e.EventType,
			Timestamp:  e.Timestamp,
			ItemID:     e.ItemID,
			ItemName:   e.ItemName,
			ScanSource: e.ScanSource,
		})
	}

	// Bucket the 7-day scan trend in Go rather than in SQL so the query
	// stays portable across database dialects
	var scans []model.AnalyticsEvent
	if err := h.db.Select("timestamp").
		Where("vendor_id = ? AND event_type = ? AND timestamp >= ?", id, model.EventScan, sevenDaysAgo).
		Find(&scans).Error; err != nil {
		log.Error("Failed to load scan trend", zap.Uint("vendor_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load analytics"})
	}
	buckets := map[string]int{}
	for _, s := range scans {
		buckets[s.Timestamp.Format("2006-01-02")]++
	}
	dailyScans := make([]dailyCount, 0, len(buckets))
	for date, count := range buckets {
		dailyScans = append(dailyScans, dailyCount{Date: date, Count: count})
	}
	sort.Slice(dailyScans, func(i, j int) bool { return dailyScans[i].Date < dailyScans[j].Date })

	return c.JSON(http.StatusOK, echo.Map{
		"total_scans":     totalScans,
		"unique_visitors": uniqueVisitors,
		"conversion_rate": conversionRate,
		"recent_activity": activity,
		"daily_scans":     dailyScans,
		"period":          "30 days",
	})
}
