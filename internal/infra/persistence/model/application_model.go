package model

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationModel mirrors the 'applications' table.
type ApplicationModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name      string    `gorm:"type:varchar(255);not null"`
	CreatedAt time.Time

	Sessions []SessionModel `gorm:"foreignKey:ApplicationID"`
}

// TableName explicitly sets the table name for GORM.
func (ApplicationModel) TableName() string {
	return "applications"
}
