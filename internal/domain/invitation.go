package domain

// Invitation is a normalized cross-platform event record. It is built once,
// the instant a platform notification decodes successfully, and never mutated
// afterwards.
type Invitation struct {
	Platform          Platform
	SenderID          PlayerID
	PresenceType      PresenceType
	SenderDisplayName string
	InvitationID      string
	// AdditionalData carries a free-form platform payload, e.g. an Oculus
	// deeplink message or the raw Steam connect string.
	AdditionalData string
}
