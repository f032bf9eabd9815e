package core

import (
	"context"

	"github.com/ArifEmreBahar/PresenceLink/internal/event"
)

// OverlayHandle identifies a VR overlay created on behalf of the Steam
// service. Zero is the invalid handle.
type OverlayHandle uint64

// SteamJoinRequest is a raw rich-presence join-requested notification.
// Self marks notifications about the local user, which are never intents.
type SteamJoinRequest struct {
	Self     bool
	Nickname string
	// Connect is the raw rich-presence connect string, expected to be of
	// the "AEB#<id>" shape when it is ours.
	Connect string
}

// SteamFriendUpdate is a raw friend rich-presence change notification. The
// connect value is not included; it is fetched on demand with
// ReadRichPresence.
type SteamFriendUpdate struct {
	Self     bool
	FriendID string
	Nickname string
}

// SteamNotifier is the Steam-side platform notification source plus the one
// synchronous read the service needs.
type SteamNotifier interface {
	JoinRequested() *event.Feed[SteamJoinRequest]
	FriendPresenceUpdated() *event.Feed[SteamFriendUpdate]
	ReadRichPresence(ctx context.Context, friendID, key string) (string, error)
}

// SteamOverlay manages the VR overlay handle the Steam service owns between
// Initialize and Terminate.
type SteamOverlay interface {
	CreateOverlay(ctx context.Context, key, name string) (OverlayHandle, error)
	DestroyOverlay(ctx context.Context, h OverlayHandle) error
}

// OculusJoinIntent is a raw group-presence join intent notification.
type OculusJoinIntent struct {
	Destination     string
	LobbySessionID  string
	MatchSessionID  string
	DeeplinkMessage string
	RequestID       string
}

// OculusInviteResult is the payload of an invitations-sent notification.
// Present is false when the platform delivered a structurally absent
// payload, which is treated as an error and suppressed. Invited is nil by
// design even when Present.
type OculusInviteResult struct {
	Present bool
	Invited []string
}

// OculusReport is a report-button notification we acknowledge as unhandled.
type OculusReport struct {
	RequestID string
}

// OculusNotifier is the Oculus-side platform notification source.
type OculusNotifier interface {
	JoinIntentReceived() *event.Feed[OculusJoinIntent]
	// AppLaunchIntent fires when the app was started by a join intent.
	AppLaunchIntent() *event.Feed[OculusJoinIntent]
	InvitationsSent() *event.Feed[OculusInviteResult]
	ReportButtonPressed() *event.Feed[OculusReport]
	ReportHandled(ctx context.Context, requestID string, handled bool) error
}
