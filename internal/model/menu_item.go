package model

import (
	"time"

	"gorm.io/gorm"
)

// MenuItem represents a single dish on a vendor's menu
type MenuItem struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	VendorID  uint           `json:"vendor_id" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"type:varchar(255);not null"`
	Price     float64        `json:"price" gorm:"not null"`
	Category  string         `json:"category" gorm:"type:varchar(100);not null"`
	Image     string         `json:"image,omitempty" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
