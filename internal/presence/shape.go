package presence

import "github.com/ArifEmreBahar/PresenceLink/internal/domain"

// RichPresenceKey is the Steam rich-presence key our connect strings are
// published under.
const RichPresenceKey = "connect"

// Descriptor is the platform-facing form of one presence publish. Steam only
// reads the rich-presence key/value pair; Oculus only reads the group
// presence fields. Both are filled by the owning Shape so the publisher can
// stay platform-agnostic.
type Descriptor struct {
	Destination       string
	LobbySessionID    string
	MatchSessionID    string
	RichPresenceKey   string
	RichPresenceValue string
	Joinable          bool
}

// Shape is the platform-specific slice of the codec: how a target id becomes
// a publishable descriptor, and how an inbound descriptor string yields an
// owner id.
type Shape interface {
	Descriptor(target domain.PlayerID) Descriptor
	Extract(s string) (domain.PlayerID, error)
}

// SteamShape publishes "AEB#<id>" under the connect key and decodes the same
// split form.
type SteamShape struct{}

func (SteamShape) Descriptor(target domain.PlayerID) Descriptor {
	v := Encode(target)
	return Descriptor{
		Destination:       Token,
		LobbySessionID:    v,
		RichPresenceKey:   RichPresenceKey,
		RichPresenceValue: v,
		Joinable:          true,
	}
}

func (SteamShape) Extract(s string) (domain.PlayerID, error) { return Decode(s) }

// OculusShape publishes the group-presence fields with the "AEB-<id>" lobby
// session id and decodes by prefix strip.
type OculusShape struct{}

func (OculusShape) Descriptor(target domain.PlayerID) Descriptor {
	return Descriptor{
		Destination:    Token,
		LobbySessionID: EncodeLobbySession(target),
		Joinable:       true,
	}
}

func (OculusShape) Extract(s string) (domain.PlayerID, error) { return DecodeLobbySession(s) }
