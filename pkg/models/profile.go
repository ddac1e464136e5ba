package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Profile is the user-visible profile row for an identity-provider user.
// The id is the provider's user id, not a local surrogate; sessions are
// issued and owned by the provider.
type Profile struct {
	bun.BaseModel `bun:"table:profiles,alias:p"`

	ID          string    `bun:",pk" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Username    string    `bun:",notnull" json:"username"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `bun:"avatar_url" json:"avatar_url"`
}
