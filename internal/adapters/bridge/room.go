package bridge

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/ArifEmreBahar/PresenceLink/internal/core"
	"github.com/ArifEmreBahar/PresenceLink/internal/domain"
	"github.com/ArifEmreBahar/PresenceLink/internal/event"
)

var _ core.RoomSession = (*Client)(nil)

// RoomName asks the host for the room currently owned by a player. An empty
// name with nil error means the room does not exist yet.
func (c *Client) RoomName(ctx context.Context, owner domain.PlayerID) (domain.RoomName, error) {
	var out roomPayload
	if err := c.call(ctx, kindGetRoomName, roomNamePayload{OwnerID: string(owner)}, &out); err != nil {
		return "", err
	}
	return domain.RoomName(out.Name), nil
}

// Join issues the join request. The outcome arrives on Joined or JoinFailed.
func (c *Client) Join(ctx context.Context, name domain.RoomName) error {
	return c.call(ctx, kindJoinRoom, roomPayload{Name: string(name)}, nil)
}

func (c *Client) InRoom() bool {
	c.roomMu.RLock()
	defer c.roomMu.RUnlock()
	return c.inRoom
}

func (c *Client) CurrentRoom() domain.RoomName {
	c.roomMu.RLock()
	defer c.roomMu.RUnlock()
	return c.current
}

func (c *Client) MenuState() domain.MenuState {
	c.roomMu.RLock()
	defer c.roomMu.RUnlock()
	return c.menuState
}

// SwitchToRoomState asks the host menu to move to the in-room state. Fire
// and forget; the menu owns the actual transition.
func (c *Client) SwitchToRoomState() {
	if err := c.call(context.Background(), kindSwitchRoomState, nil, nil); err != nil {
		log.Warn().Err(err).Str("module", "bridge").Msg("switch room state failed")
	}
}

func (c *Client) Joined() *event.Feed[domain.RoomName] { return &c.joined }

func (c *Client) JoinFailed() *event.Feed[domain.RoomName] { return &c.joinFailed }

func (c *Client) PlayerLeft() *event.Feed[domain.PlayerID] { return &c.playerLeft }

func (c *Client) Left() *event.Feed[struct{}] { return &c.left }
