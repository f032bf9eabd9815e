package app

import (
	"github.com/ArifEmreBahar/PresenceLink/internal/core"
	"github.com/ArifEmreBahar/PresenceLink/internal/domain"
)

// StaticIdentity is a config-supplied identity for hosts that resolve the
// account id before starting this process. Ready only once the id is known.
type StaticIdentity struct {
	ID domain.PlayerID
}

var _ core.Identity = StaticIdentity{}

func (s StaticIdentity) Ready() bool { return s.ID != "" }

func (s StaticIdentity) PlayerID() domain.PlayerID { return s.ID }
