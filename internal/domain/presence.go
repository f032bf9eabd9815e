package domain

// PresenceType classifies the activity advertised by a presence string.
// InGame is the one that routes an accepted invitation into the join workflow.
type PresenceType int

const (
	PresenceUnknown PresenceType = iota
	PresenceNormal
	PresenceInGame
	PresenceOutOfPlay
)

func (t PresenceType) String() string {
	switch t {
	case PresenceNormal:
		return "normal"
	case PresenceInGame:
		return "in_game"
	case PresenceOutOfPlay:
		return "out_of_play"
	default:
		return "unknown"
	}
}
