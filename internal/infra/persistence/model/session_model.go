package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionModel mirrors the 'sessions' table. The composite unique index on
// (user_id, application_id) backs the at-most-one-session-per-pair invariant
// and is the conflict target for the atomic upsert.
type SessionModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sessions_user_application"`
	ApplicationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sessions_user_application"`
	TokenType     string    `gorm:"type:varchar(32);not null"`
	AccessToken   string    `gorm:"type:text;not null"`
	RefreshToken  string    `gorm:"type:text;not null;index"`
	ExpiresIn     int       `gorm:"not null"`
	CreatedAt     time.Time
}

// TableName explicitly sets the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}
