// Package defaultsvc is the inert InvitationService used when no
// platform-specific implementation applies. It never fires events and never
// publishes presence, but it is a real object, never nil.
package defaultsvc

import (
	"context"

	"github.com/ArifEmreBahar/PresenceLink/internal/core"
	"github.com/ArifEmreBahar/PresenceLink/internal/domain"
	"github.com/ArifEmreBahar/PresenceLink/internal/event"
	"github.com/ArifEmreBahar/PresenceLink/internal/presence"
)

type Service struct {
	state *presence.State

	sent     event.Feed[[]domain.Invitation]
	anyJoin  event.Feed[domain.Invitation]
	inGame   event.Feed[domain.Invitation]
	launched event.Feed[domain.Invitation]
}

var _ core.InvitationService = (*Service)(nil)

// New builds the stub. Presence is local-only so SetMine/Set still succeed
// without a platform behind them.
func New(ownerID domain.PlayerID) *Service {
	cfg := presence.DefaultConfig()
	cfg.LocalOnly = true
	return &Service{
		state: presence.NewState(ownerID, presence.SteamShape{}, nil, cfg),
	}
}

func (s *Service) Presence() *presence.State { return s.state }

func (s *Service) Initialize(ctx context.Context) error { return nil }

func (s *Service) Terminate() error { return nil }

func (s *Service) InvitationSent() *event.Feed[[]domain.Invitation] { return &s.sent }
func (s *Service) AnyJoinIntent() *event.Feed[domain.Invitation]    { return &s.anyJoin }
func (s *Service) InGameIntent() *event.Feed[domain.Invitation]     { return &s.inGame }
func (s *Service) AppLaunched() *event.Feed[domain.Invitation]      { return &s.launched }
