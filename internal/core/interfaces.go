// Package core defines the contracts between the invitation layer and its
// collaborators: the platform services, the identity provider, and the
// room/session layer. Implementations live in adapters; tests use fakes.
package core

import (
	"context"

	"github.com/ArifEmreBahar/PresenceLink/internal/domain"
	"github.com/ArifEmreBahar/PresenceLink/internal/event"
	"github.com/ArifEmreBahar/PresenceLink/internal/presence"
)

// Identity exposes the local player's stable id. The invitation layer cannot
// initialize until it is ready.
type Identity interface {
	Ready() bool
	PlayerID() domain.PlayerID
}

// InvitationService is the per-platform capability set. Exactly one variant
// (Steam, Oculus or the inert default) is active at a time; it owns the
// presence state and converts raw platform notifications into normalized
// Invitation events.
//
// For any one accepted notification AnyJoinIntent fires before InGameIntent,
// synchronously on the delivering goroutine. Implementations suppress
// malformed descriptors, empty sender ids and self-invitations without
// raising anything.
type InvitationService interface {
	Presence() *presence.State

	// Initialize is idempotent: a no-op when already initialized or when
	// the identity collaborator is not ready. It registers platform
	// callbacks and publishes the local player's own presence.
	Initialize(ctx context.Context) error

	// Terminate is idempotent and safe after a partial Initialize. It
	// unregisters all callbacks and releases platform handles.
	Terminate() error

	// InvitationSent fires after the platform reports invitations went
	// out. The invitee list is currently always nil; consumers must
	// tolerate that.
	InvitationSent() *event.Feed[[]domain.Invitation]
	AnyJoinIntent() *event.Feed[domain.Invitation]
	InGameIntent() *event.Feed[domain.Invitation]
	// AppLaunched fires when the application was started by a join intent.
	AppLaunched() *event.Feed[domain.Invitation]
}
