package model

import (
	"time"
)

// Analytics event types
const (
	EventScan     = "scan"
	EventVisit    = "visit"
	EventMenuView = "menu_view"
	EventItemView = "item_view"
)

// ValidEventType reports whether t is one of the recorded event types
func ValidEventType(t string) bool {
	switch t {
	case EventScan, EventVisit, EventMenuView, EventItemView:
		return true
	}
	return false
}

// AnalyticsEvent records a single scan/visit/view against a restaurant.
// Client IP and user agent are stored only as SHA-256 hashes.
type AnalyticsEvent struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	VendorID       uint      `json:"vendor_id" gorm:"index:idx_analytics_vendor_time;not null"`
	RestaurantName string    `json:"restaurant_name" gorm:"type:varchar(255);index"`
	EventType      string    `json:"event_type" gorm:"type:varchar(20);index;not null"`
	IPHash         string    `json:"-" gorm:"type:varchar(64)"`
	UserAgentHash  string    `json:"-" gorm:"type:varchar(64)"`
	Referrer       string    `json:"referrer,omitempty" gorm:"type:text"`
	ItemID         string    `json:"item_id,omitempty" gorm:"type:varchar(64)"`
	ItemName       string    `json:"item_name,omitempty" gorm:"type:varchar(255)"`
	ScanSource     string    `json:"scan_source,omitempty" gorm:"type:varchar(100)"`
	Timestamp      time.Time `json:"timestamp" gorm:"index:idx_analytics_vendor_time"`
	CreatedAt      time.Time `json:"created_at"`
}
