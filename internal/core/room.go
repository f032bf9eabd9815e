package core

import (
	"context"

	"github.com/ArifEmreBahar/PresenceLink/internal/domain"
	"github.com/ArifEmreBahar/PresenceLink/internal/event"
)

// RoomSession is the narrow contract the join workflow needs from the
// external room/session layer. Lookups and joins are requests; outcomes
// arrive on the feeds, which can fire at any time and from any goroutine.
type RoomSession interface {
	// RoomName resolves the room currently owned by a player. An empty
	// name with a nil error means "no room yet"; the caller polls.
	RoomName(ctx context.Context, owner domain.PlayerID) (domain.RoomName, error)

	// Join issues a join request. The outcome is reported on exactly one
	// of Joined or JoinFailed.
	Join(ctx context.Context, name domain.RoomName) error

	InRoom() bool
	CurrentRoom() domain.RoomName

	// MenuState and SwitchToRoomState cover the one special-cased menu
	// transition after a successful invited join from quick match.
	MenuState() domain.MenuState
	SwitchToRoomState()

	Joined() *event.Feed[domain.RoomName]
	JoinFailed() *event.Feed[domain.RoomName]
	PlayerLeft() *event.Feed[domain.PlayerID]
	Left() *event.Feed[struct{}]
}
