package entities

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Token is the opaque bearer credential bound one-to-one with a user.
// It is issued at registration or first login and never rotated.
type Token struct {
	Key       string    `gorm:"primaryKey;type:varchar(40)" json:"token"`
	UserID    string    `gorm:"uniqueIndex;type:text;not null" json:"-"`
	CreatedAt time.Time `json:"-"`
}

func (t *Token) BeforeCreate(tx *gorm.DB) (err error) {
	if t.Key == "" {
		b := make([]byte, 20)
		if _, err := rand.Read(b); err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}
		t.Key = hex.EncodeToString(b)
	}
	return
}
