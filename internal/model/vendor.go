package model

import (
	"time"

	"gorm.io/gorm"
)

// Discount types supported by the pricing engine
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Vendor represents a restaurant account. The email is the tenant key; the
// row also carries the outstanding login passcode and the restaurant-wide
// discount configuration.
//
// OTP and OTPExpiry are always set and cleared together: a non-nil passcode
// is paired with a future expiry at creation time, and both are cleared on
// successful verification. At most one passcode is outstanding per vendor.
type Vendor struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Email          string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	OTP            *string        `json:"-" gorm:"type:varchar(6)"`
	OTPExpiry      *time.Time     `json:"-"`
	RestaurantName string         `json:"restaurant_name" gorm:"type:varchar(255);index"`
	Phone          string         `json:"phone" gorm:"type:varchar(30)"`
	Address        string         `json:"address" gorm:"type:text"`
	Description    string         `json:"description" gorm:"type:text"`
	Logo           string         `json:"logo" gorm:"type:text"`
	DiscountType   string         `json:"discount_type" gorm:"type:varchar(20);default:'percentage'"`
	DiscountValue  float64        `json:"discount_value" gorm:"default:0"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}
