package bridge

import "encoding/json"

// Wire kinds sent to the host process.
const (
	kindSetRichPresence  = "set_rich_presence"
	kindSetGroupPresence = "set_group_presence"
	kindGetRichPresence  = "get_rich_presence"
	kindOverlayCreate    = "overlay_create"
	kindOverlayDestroy   = "overlay_destroy"
	kindReportHandled    = "report_handled"
	kindGetRoomName      = "get_room_name"
	kindJoinRoom         = "join_room"
	kindSwitchRoomState  = "switch_room_state"
)

// Wire kinds received from the host process.
const (
	kindResult          = "result"
	kindJoinIntent      = "join_intent"
	kindAppLaunchIntent = "app_launch_intent"
	kindRichJoinRequest = "rich_presence_join"
	kindFriendPresence  = "friend_presence"
	kindInvitationsSent = "invitations_sent"
	kindReportButton    = "report_button"
	kindJoinedRoom      = "joined_room"
	kindJoinRoomFailed  = "join_room_failed"
	kindPlayerLeftRoom  = "player_left_room"
	kindLeftRoom        = "left_room"
	kindMenuState       = "menu_state"
)

// envelope frames every message on the wire. Requests and results carry a
// correlation id; notifications do not.
type envelope struct {
	Kind string          `json:"kind"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

type request struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	Data any    `json:"data,omitempty"`
}

// result is the host's answer to one request. IsError marks transient
// platform failures; the caller decides whether to retry.
type result struct {
	IsError bool            `json:"is_error"`
	Error   string          `json:"error,omitempty"`
	Value   json.RawMessage `json:"value,omitempty"`
}

type richPresencePayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type groupPresencePayload struct {
	Destination    string `json:"destination"`
	LobbySessionID string `json:"lobby_session_id"`
	MatchSessionID string `json:"match_session_id"`
	Joinable       bool   `json:"joinable"`
}

type getRichPresencePayload struct {
	FriendID string `json:"friend_id"`
	Key      string `json:"key"`
}

type stringValue struct {
	Value string `json:"value"`
}

type overlayCreatePayload struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type overlayHandleValue struct {
	Handle uint64 `json:"handle"`
}

type reportHandledPayload struct {
	RequestID string `json:"request_id"`
	Handled   bool   `json:"handled"`
}

type roomNamePayload struct {
	OwnerID string `json:"owner_id"`
}

type roomPayload struct {
	Name string `json:"name"`
}

type joinIntentNote struct {
	Destination     string `json:"destination"`
	LobbySessionID  string `json:"lobby_session_id"`
	MatchSessionID  string `json:"match_session_id"`
	DeeplinkMessage string `json:"deeplink_message"`
	RequestID       string `json:"request_id"`
}

type richJoinNote struct {
	Self     bool   `json:"self"`
	Nickname string `json:"nickname"`
	Connect  string `json:"connect"`
}

type friendPresenceNote struct {
	Self     bool   `json:"self"`
	FriendID string `json:"friend_id"`
	Nickname string `json:"nickname"`
}

type invitationsSentNote struct {
	Invited *[]string `json:"invited"`
}

type reportButtonNote struct {
	RequestID string `json:"request_id"`
}

type playerLeftNote struct {
	PlayerID string `json:"player_id"`
}

type menuStateNote struct {
	State string `json:"state"`
}
