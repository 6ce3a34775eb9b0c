package models

import "time"

// User is the canonical identity stored in the user directory. Email is the
// directory's natural key: at most one User exists per email, regardless of
// which registration path (password or OAuth provider) created it.
type User struct {
	// ID is derived from the external id of whichever provider created the
	// record (provider-scoped, so not globally unique across providers).
	ID    string `bson:"_id" json:"id"`
	Email string `bson:"email" json:"email"`
	// Password is nil for OAuth-created accounts. nil means "this account
	// cannot authenticate via password", never "no password configured".
	// Excluded from JSON so it can never leak into a response payload.
	Password  *string   `bson:"password" json:"-"`
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
