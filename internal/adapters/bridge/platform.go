package bridge

import (
	"context"

	"github.com/ArifEmreBahar/PresenceLink/internal/core"
	"github.com/ArifEmreBahar/PresenceLink/internal/event"
	"github.com/ArifEmreBahar/PresenceLink/internal/presence"
)

// The client is the production implementation of every platform contract;
// the compile-time checks keep the wire surface honest.
var (
	_ core.SteamNotifier  = (*Client)(nil)
	_ core.SteamOverlay   = (*Client)(nil)
	_ core.OculusNotifier = (*Client)(nil)
	_ presence.Publisher  = (*Client)(nil)
)

func (c *Client) JoinRequested() *event.Feed[core.SteamJoinRequest] { return &c.richJoin }

func (c *Client) FriendPresenceUpdated() *event.Feed[core.SteamFriendUpdate] {
	return &c.friendUpdate
}

func (c *Client) ReadRichPresence(ctx context.Context, friendID, key string) (string, error) {
	var out stringValue
	err := c.call(ctx, kindGetRichPresence, getRichPresencePayload{FriendID: friendID, Key: key}, &out)
	if err != nil {
		return "", err
	}
	return out.Value, nil
}

func (c *Client) CreateOverlay(ctx context.Context, key, name string) (core.OverlayHandle, error) {
	var out overlayHandleValue
	err := c.call(ctx, kindOverlayCreate, overlayCreatePayload{Key: key, Name: name}, &out)
	if err != nil {
		return 0, err
	}
	return core.OverlayHandle(out.Handle), nil
}

func (c *Client) DestroyOverlay(ctx context.Context, h core.OverlayHandle) error {
	return c.call(ctx, kindOverlayDestroy, overlayHandleValue{Handle: uint64(h)}, nil)
}

func (c *Client) JoinIntentReceived() *event.Feed[core.OculusJoinIntent] { return &c.joinIntent }

func (c *Client) AppLaunchIntent() *event.Feed[core.OculusJoinIntent] { return &c.appLaunch }

func (c *Client) InvitationsSent() *event.Feed[core.OculusInviteResult] { return &c.invSent }

func (c *Client) ReportButtonPressed() *event.Feed[core.OculusReport] { return &c.reportButton }

func (c *Client) ReportHandled(ctx context.Context, requestID string, handled bool) error {
	return c.call(ctx, kindReportHandled, reportHandledPayload{RequestID: requestID, Handled: handled}, nil)
}

// Publish routes a descriptor to the host. A descriptor carrying a
// rich-presence key is a Steam publish; otherwise it is an Oculus group
// presence publish.
func (c *Client) Publish(ctx context.Context, d presence.Descriptor) error {
	if d.RichPresenceKey != "" {
		return c.call(ctx, kindSetRichPresence, richPresencePayload{
			Key:   d.RichPresenceKey,
			Value: d.RichPresenceValue,
		}, nil)
	}
	return c.call(ctx, kindSetGroupPresence, groupPresencePayload{
		Destination:    d.Destination,
		LobbySessionID: d.LobbySessionID,
		MatchSessionID: d.MatchSessionID,
		Joinable:       d.Joinable,
	}, nil)
}
