// Package presence owns the presence-string wire format and the local record
// of what presence was last published to the platform's social layer.
package presence

import (
	"errors"
	"strings"

	"github.com/ArifEmreBahar/PresenceLink/internal/domain"
)

const (
	// Token is the fixed prefix marking a presence string as ours.
	Token = "AEB"

	// Separator splits the token from the owner id in rich-presence strings.
	Separator = "#"

	// LobbySeparator splits the destination from the owner id in Oculus
	// lobby session ids, which carry extra structure and are prefix-matched
	// rather than split.
	LobbySeparator = "-"
)

// ErrMalformed reports a string that is not one of our presence strings.
// Callers treat it as "no invitation", never as a fault.
var ErrMalformed = errors.New("malformed presence string")

// Encode builds the platform-agnostic presence string. An empty owner id
// yields the bare token; that encoding is not round-trippable on purpose.
func Encode(ownerID domain.PlayerID) string {
	if ownerID == "" {
		return Token
	}
	return Token + Separator + string(ownerID)
}

// Decode extracts the owner id from a presence string. The input must split
// into exactly two parts on the separator, the first equal to the token and
// the second non-empty. One separator occurrence, no partial matches.
func Decode(s string) (domain.PlayerID, error) {
	if s == "" {
		return "", ErrMalformed
	}
	parts := strings.Split(s, Separator)
	if len(parts) != 2 || parts[0] != Token || parts[1] == "" {
		return "", ErrMalformed
	}
	return domain.PlayerID(parts[1]), nil
}

// ContainsToken is a cheap pre-filter before a full Decode. It is strictly
// weaker than Decode and must not replace it.
func ContainsToken(s string) bool {
	return s != "" && strings.Contains(s, Token)
}

// EncodeLobbySession builds the Oculus lobby session id "AEB-<id>".
func EncodeLobbySession(ownerID domain.PlayerID) string {
	return Token + LobbySeparator + string(ownerID)
}

// DecodeLobbySession strips the "AEB-" prefix from an Oculus lobby session
// id. A missing prefix or an empty remainder is ErrMalformed.
func DecodeLobbySession(s string) (domain.PlayerID, error) {
	rest, ok := strings.CutPrefix(s, Token+LobbySeparator)
	if !ok || rest == "" {
		return "", ErrMalformed
	}
	return domain.PlayerID(rest), nil
}

// IsGroupLaunch reports whether a lobby session id belongs to some other
// group launch flow rather than ours. A nil/empty id counts as a group
// launch, matching the platform's interpretation.
func IsGroupLaunch(lobbySessionID string) bool {
	if lobbySessionID == "" {
		return true
	}
	return !strings.Contains(lobbySessionID, Token)
}

// IsDestination reports whether name is our destination API name.
func IsDestination(name string) bool {
	return name == Token
}
