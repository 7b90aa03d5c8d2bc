package model

import "time"

// Token is a persisted bearer credential for external API clients.
// At most one active, unexpired token exists per user: issuing a new
// one revokes all of its active siblings first.
type Token struct {
	TID       uint      `gorm:"column:tid;primaryKey;autoIncrement" json:"tid"`
	Token     string    `gorm:"size:200;uniqueIndex;not null" json:"token"`
	UserID    uint      `gorm:"not null" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
	IsActive  bool      `gorm:"default:true" json:"isActive"`
}

func (Token) TableName() string {
	return "tokens"
}

// IsValid reports whether the token is active and not yet expired
func (t *Token) IsValid() bool {
	return t.IsActive && t.ExpiresAt.After(time.Now())
}
