package identity

// Email is a single address entry from a provider profile.
type Email struct {
	Value    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// ExternalProfile is the provider-supplied record returned after the OAuth
// handshake. It lives for a single authentication attempt only.
type ExternalProfile struct {
	Provider    string
	ExternalID  string // provider-scoped id, not globally unique
	DisplayName string
	// Emails may be empty for providers with privacy-restricted email
	// scopes (GitHub); the email-resolver fallback covers that case.
	Emails []Email
}

// Identity is the canonical record the rest of the service consumes: one
// external id, one email, one display name.
type Identity struct {
	Provider    string
	ExternalID  string
	Email       string
	DisplayName string
}

// Normalize converts a profile plus the already-selected canonical email into
// an Identity. Email selection (first-listed vs. resolver fallback) is the
// caller's concern; normalization just flattens the record.
func Normalize(p *ExternalProfile, email string) Identity {
	return Identity{
		Provider:    p.Provider,
		ExternalID:  p.ExternalID,
		Email:       email,
		DisplayName: p.DisplayName,
	}
}

// CanonicalEmail returns the first listed profile email, if any. Providers
// order the list with the primary address first; that ordering is a provider
// contract and is not re-validated against the primary flag here.
func (p *ExternalProfile) CanonicalEmail() (string, bool) {
	if len(p.Emails) == 0 {
		return "", false
	}
	return p.Emails[0].Value, true
}
