package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// City is a saved location belonging to exactly one user. Name and
// coordinates come from the geocoder and are immutable after creation;
// only the favorite flag can change.
type City struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID `gorm:"type:char(36);not null;index:idx_cities_owner_name,priority:1"`
	Name       string    `gorm:"size:255;not null;index:idx_cities_owner_name,priority:2"`
	Lat        float64   `gorm:"not null"`
	Lon        float64   `gorm:"not null"`
	IsFavorite bool      `gorm:"default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BeforeCreate sets UUID before creating the record.
func (c *City) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
