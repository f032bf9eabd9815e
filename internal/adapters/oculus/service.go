// Package oculus implements the InvitationService on top of the Oculus group
// presence layer. Join intents carry an "AEB-<id>" lobby session id; the
// invite panel result signals invitations went out.
package oculus

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ArifEmreBahar/PresenceLink/internal/core"
	"github.com/ArifEmreBahar/PresenceLink/internal/domain"
	"github.com/ArifEmreBahar/PresenceLink/internal/event"
	"github.com/ArifEmreBahar/PresenceLink/internal/presence"
)

type Service struct {
	state    *presence.State
	identity core.Identity
	notifier core.OculusNotifier

	sent     event.Feed[[]domain.Invitation]
	anyJoin  event.Feed[domain.Invitation]
	inGame   event.Feed[domain.Invitation]
	launched event.Feed[domain.Invitation]

	mu          sync.Mutex
	initialized bool
	cancel      context.CancelFunc
	ctx         context.Context
	unsubs      []func()
}

var _ core.InvitationService = (*Service)(nil)

func New(identity core.Identity, notifier core.OculusNotifier, pub presence.Publisher, cfg presence.Config) *Service {
	return &Service{
		state:    presence.NewState(identity.PlayerID(), presence.OculusShape{}, pub, cfg),
		identity: identity,
		notifier: notifier,
	}
}

func (s *Service) Presence() *presence.State { return s.state }

// Initialize registers the group presence callbacks and publishes the local
// player's own presence. No-op when already initialized or when the identity
// collaborator is not ready yet.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized || !s.identity.Ready() {
		return nil
	}

	s.ctx, s.cancel = context.WithCancel(ctx)

	s.unsubs = append(s.unsubs,
		s.notifier.JoinIntentReceived().Subscribe(s.handleJoinIntent),
		s.notifier.AppLaunchIntent().Subscribe(s.handleAppLaunchIntent),
		s.notifier.InvitationsSent().Subscribe(s.handleInvitationsSent),
		s.notifier.ReportButtonPressed().Subscribe(s.handleReportButton),
	)

	if err := s.state.SetMine(s.ctx); err != nil {
		log.Warn().Err(err).Str("module", "adapters.oculus").Msg("initial presence publish failed")
	}

	s.initialized = true
	log.Info().Str("module", "adapters.oculus").Msg("service initialized")
	return nil
}

// Terminate unregisters all callbacks. Safe after a partial Initialize.
func (s *Service) Terminate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.initialized = false
	log.Info().Str("module", "adapters.oculus").Msg("service terminated")
	return nil
}

func (s *Service) InvitationSent() *event.Feed[[]domain.Invitation] { return &s.sent }
func (s *Service) AnyJoinIntent() *event.Feed[domain.Invitation]    { return &s.anyJoin }
func (s *Service) InGameIntent() *event.Feed[domain.Invitation]     { return &s.inGame }
func (s *Service) AppLaunched() *event.Feed[domain.Invitation]      { return &s.launched }

// decodeIntent validates one join intent and builds the normalized
// invitation. ok is false when the intent must be dropped silently: group
// launches, foreign destinations and lobby ids, empty sender ids and
// self-invitations are not join intents.
func (s *Service) decodeIntent(n core.OculusJoinIntent) (domain.Invitation, bool) {
	if presence.IsGroupLaunch(n.LobbySessionID) {
		return domain.Invitation{}, false
	}
	if n.Destination != "" && !presence.IsDestination(n.Destination) {
		return domain.Invitation{}, false
	}
	senderID, ok := s.state.ExtractOwnerID(n.LobbySessionID)
	if !ok {
		return domain.Invitation{}, false
	}
	if senderID == "" || senderID == s.state.OwnerID() {
		return domain.Invitation{}, false
	}

	return domain.Invitation{
		Platform:          domain.PlatformOculus,
		PresenceType:      domain.PresenceInGame,
		SenderID:          senderID,
		SenderDisplayName: "Unknown",
		InvitationID:      n.RequestID,
		AdditionalData:    n.DeeplinkMessage,
	}, true
}

func (s *Service) handleJoinIntent(n core.OculusJoinIntent) {
	inv, ok := s.decodeIntent(n)
	if !ok {
		return
	}
	s.anyJoin.Publish(inv)
	s.inGame.Publish(inv)
}

func (s *Service) handleAppLaunchIntent(n core.OculusJoinIntent) {
	inv, ok := s.decodeIntent(n)
	if !ok {
		return
	}
	s.launched.Publish(inv)
}

// handleInvitationsSent republishes the invite-panel result. A structurally
// absent payload is an error, not an empty send. Invited recipients are not
// tracked, so subscribers receive nil and must tolerate it.
func (s *Service) handleInvitationsSent(r core.OculusInviteResult) {
	if !r.Present {
		log.Error().Str("module", "adapters.oculus").Msg("invitations-sent payload is absent")
		return
	}
	s.sent.Publish(nil)
}

// handleReportButton tells the platform we do not handle abuse reports
// ourselves.
func (s *Service) handleReportButton(r core.OculusReport) {
	if err := s.notifier.ReportHandled(s.ctx, r.RequestID, false); err != nil {
		log.Warn().Err(err).Str("module", "adapters.oculus").Msg("failed to ack report button")
	}
}
