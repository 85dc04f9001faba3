// Package model contains the GORM persistence models mirroring the database tables.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type UserModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Username           string    `gorm:"type:varchar(255);unique;not null"`
	FirstName          string    `gorm:"type:varchar(100)"`
	LastName           string    `gorm:"type:varchar(100)"`
	Email              string    `gorm:"type:varchar(255);unique;not null"`
	PasswordHash       string    `gorm:"type:varchar(255)"`
	PasswordResetToken string    `gorm:"type:text"`
	HasGrantedAccess   bool      `gorm:"not null;default:false"`
	GrantedAccessOn    *time.Time
	RoleIDs            []string `gorm:"type:jsonb;serializer:json"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Applications []ApplicationModel `gorm:"many2many:user_applications"`
	Sessions     []SessionModel     `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
