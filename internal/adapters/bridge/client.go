// Package bridge is the websocket link to the game-client host process. The
// host owns the real platform SDKs and the room layer; this client carries
// typed JSON frames both ways, correlating request/result pairs by id and
// fanning notifications out to typed feeds.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/ArifEmreBahar/PresenceLink/internal/core"
	"github.com/ArifEmreBahar/PresenceLink/internal/domain"
	"github.com/ArifEmreBahar/PresenceLink/internal/event"
)

// ErrClosed reports a call attempted after the client shut down.
var ErrClosed = errors.New("bridge closed")

const writeWait = 5 * time.Second

type Client struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]chan result
	closed    bool

	// platform notifications
	richJoin     event.Feed[core.SteamJoinRequest]
	friendUpdate event.Feed[core.SteamFriendUpdate]
	joinIntent   event.Feed[core.OculusJoinIntent]
	appLaunch    event.Feed[core.OculusJoinIntent]
	invSent      event.Feed[core.OculusInviteResult]
	reportButton event.Feed[core.OculusReport]

	// room notifications
	joined     event.Feed[domain.RoomName]
	joinFailed event.Feed[domain.RoomName]
	playerLeft event.Feed[domain.PlayerID]
	left       event.Feed[struct{}]

	// room snapshot, updated from notifications
	roomMu    sync.RWMutex
	inRoom    bool
	current   domain.RoomName
	menuState domain.MenuState
}

// Dial connects to the host and starts the read pump. The pump stops when
// ctx is cancelled or the connection drops.
func Dial(ctx context.Context, addr string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial bridge %s: %w", addr, err)
	}
	c := &Client{
		conn:      conn,
		pending:   make(map[string]chan result),
		menuState: domain.MenuUnknown,
	}
	go c.readPump(ctx)
	return c, nil
}

// Close tears the connection down and fails all in-flight calls.
func (c *Client) Close() error {
	c.pendingMu.Lock()
	if c.closed {
		c.pendingMu.Unlock()
		return nil
	}
	c.closed = true
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
	c.pendingMu.Unlock()
	return c.conn.Close()
}

// call sends one request and waits for the matching result frame. A result
// with is_error set comes back as a plain error; callers that retry wrap it.
func (c *Client) call(ctx context.Context, kind string, payload, out any) error {
	id := uuid.NewString()

	ch := make(chan result, 1)
	c.pendingMu.Lock()
	if c.closed {
		c.pendingMu.Unlock()
		return ErrClosed
	}
	c.pending[id] = ch
	c.pendingMu.Unlock()

	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
	}()

	if err := c.writeJSON(request{Kind: kind, ID: id, Data: payload}); err != nil {
		return fmt.Errorf("bridge write %s: %w", kind, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res, ok := <-ch:
		if !ok {
			return ErrClosed
		}
		if res.IsError {
			return fmt.Errorf("bridge %s: %s", kind, res.Error)
		}
		if out != nil && len(res.Value) > 0 {
			if err := json.Unmarshal(res.Value, out); err != nil {
				return fmt.Errorf("bridge %s result: %w", kind, err)
			}
		}
		return nil
	}
}

func (c *Client) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		log.Info().Str("module", "bridge").Msg("read pump closing")
		_ = c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					log.Error().Err(err).Str("module", "bridge").Msg("read error")
				}
				return
			}
			c.dispatch(data)
		}
	}
}

func (c *Client) dispatch(data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "bridge").Msg("bad json frame")
		return
	}

	switch env.Kind {
	case kindResult:
		c.resolve(env)
	case kindJoinIntent:
		c.joinIntent.Publish(decodeNote[joinIntentNote, core.OculusJoinIntent](env, intentFromNote))
	case kindAppLaunchIntent:
		c.appLaunch.Publish(decodeNote[joinIntentNote, core.OculusJoinIntent](env, intentFromNote))
	case kindRichJoinRequest:
		c.richJoin.Publish(decodeNote[richJoinNote, core.SteamJoinRequest](env, func(n richJoinNote) core.SteamJoinRequest {
			return core.SteamJoinRequest{Self: n.Self, Nickname: n.Nickname, Connect: n.Connect}
		}))
	case kindFriendPresence:
		c.friendUpdate.Publish(decodeNote[friendPresenceNote, core.SteamFriendUpdate](env, func(n friendPresenceNote) core.SteamFriendUpdate {
			return core.SteamFriendUpdate{Self: n.Self, FriendID: n.FriendID, Nickname: n.Nickname}
		}))
	case kindInvitationsSent:
		c.invSent.Publish(decodeNote[invitationsSentNote, core.OculusInviteResult](env, func(n invitationsSentNote) core.OculusInviteResult {
			if n.Invited == nil {
				return core.OculusInviteResult{Present: false}
			}
			return core.OculusInviteResult{Present: true}
		}))
	case kindReportButton:
		c.reportButton.Publish(decodeNote[reportButtonNote, core.OculusReport](env, func(n reportButtonNote) core.OculusReport {
			return core.OculusReport{RequestID: n.RequestID}
		}))
	case kindJoinedRoom:
		n := mustDecode[roomPayload](env)
		c.setRoom(true, domain.RoomName(n.Name))
		c.joined.Publish(domain.RoomName(n.Name))
	case kindJoinRoomFailed:
		n := mustDecode[roomPayload](env)
		c.joinFailed.Publish(domain.RoomName(n.Name))
	case kindPlayerLeftRoom:
		n := mustDecode[playerLeftNote](env)
		c.playerLeft.Publish(domain.PlayerID(n.PlayerID))
	case kindLeftRoom:
		c.setRoom(false, "")
		c.left.Publish(struct{}{})
	case kindMenuState:
		n := mustDecode[menuStateNote](env)
		c.roomMu.Lock()
		c.menuState = domain.MenuState(n.State)
		c.roomMu.Unlock()
	default:
		log.Warn().Str("module", "bridge").Str("kind", env.Kind).Msg("unknown frame")
	}
}

func (c *Client) resolve(env envelope) {
	var res result
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &res); err != nil {
			log.Error().Err(err).Str("module", "bridge").Str("id", env.ID).Msg("bad result frame")
			return
		}
	}
	c.pendingMu.Lock()
	ch, ok := c.pending[env.ID]
	if ok {
		delete(c.pending, env.ID)
	}
	c.pendingMu.Unlock()
	if !ok {
		log.Warn().Str("module", "bridge").Str("id", env.ID).Msg("result for unknown request")
		return
	}
	ch <- res
}

func (c *Client) setRoom(inRoom bool, name domain.RoomName) {
	c.roomMu.Lock()
	c.inRoom = inRoom
	c.current = name
	c.roomMu.Unlock()
}

func intentFromNote(n joinIntentNote) core.OculusJoinIntent {
	return core.OculusJoinIntent{
		Destination:     n.Destination,
		LobbySessionID:  n.LobbySessionID,
		MatchSessionID:  n.MatchSessionID,
		DeeplinkMessage: n.DeeplinkMessage,
		RequestID:       n.RequestID,
	}
}

// decodeNote unmarshals a notification payload and maps it to the core type.
// A malformed payload yields the zero value, which downstream handlers drop.
func decodeNote[W any, T any](env envelope, conv func(W) T) T {
	var w W
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &w); err != nil {
			log.Error().Err(err).Str("module", "bridge").Str("kind", env.Kind).Msg("bad notification payload")
		}
	}
	return conv(w)
}

func mustDecode[T any](env envelope) T {
	var v T
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &v); err != nil {
			log.Error().Err(err).Str("module", "bridge").Str("kind", env.Kind).Msg("bad notification payload")
		}
	}
	return v
}
