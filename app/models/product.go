package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaxPhotoSize is the largest accepted product photo in bytes.
const MaxPhotoSize = 1000000

type Product struct {
	ID               string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"_id"`
	Name             string          `gorm:"size:255;not null" json:"name"`
	Slug             string          `gorm:"size:255;not null;index" json:"slug"`
	Description      string          `gorm:"type:text;not null" json:"description"`
	Price            decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price"`
	CategoryID       string          `gorm:"size:36;not null;index" json:"category_id"`
	Category         *Category       `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category,omitempty"`
	Quantity         int             `gorm:"not null" json:"quantity"`
	Shipping         bool            `gorm:"not null;default:false" json:"shipping"`
	Photo            []byte          `gorm:"type:longblob" json:"-"`
	PhotoContentType string          `gorm:"size:100" json:"-"`
	CreatedAt        time.Time       `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

func (p *Product) HasPhoto() bool {
	return len(p.Photo) > 0
}
