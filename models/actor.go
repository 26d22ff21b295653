package models

// Actor is the resolved caller identity handed to every mutating operation.
// Credentials are verified upstream; the services trust these fields.
type Actor struct {
	ID                string `json:"id"`
	IsAdmin           bool   `json:"isAdmin"`
	ProviderProfileID string `json:"providerProfileId,omitempty"`
}

// OwnsProvider reports whether the actor operates the given provider profile.
func (a Actor) OwnsProvider(providerID string) bool {
	return a.ProviderProfileID != "" && a.ProviderProfileID == providerID
}

// Role is a short label used in timeline entries.
func (a Actor) Role() string {
	switch {
	case a.IsAdmin:
		return "admin"
	case a.ProviderProfileID != "":
		return "provider"
	default:
		return "customer"
	}
}
