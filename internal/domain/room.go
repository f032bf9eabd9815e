package domain

type RoomName string

// MenuState mirrors the host's menu workflow state. The orchestrator only
// special-cases QuickMatch: a successful invited join from there switches the
// menu to the in-room state.
type MenuState string

const (
	MenuUnknown    MenuState = "unknown"
	MenuQuickMatch MenuState = "quick_match"
	MenuInRoom     MenuState = "in_room"
)
