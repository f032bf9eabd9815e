// Package steam implements the InvitationService on top of the Steam social
// layer: rich-presence connect strings carry the invite, friend presence
// updates signal an accepted outgoing invite, and a VR overlay handle is held
// for the lifetime of the service.
package steam

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ArifEmreBahar/PresenceLink/internal/core"
	"github.com/ArifEmreBahar/PresenceLink/internal/domain"
	"github.com/ArifEmreBahar/PresenceLink/internal/event"
	"github.com/ArifEmreBahar/PresenceLink/internal/presence"
)

const (
	overlayKey  = "AEB_OVERLAY_KEY"
	overlayName = "AEB_OVERLAY"
)

type Service struct {
	state    *presence.State
	identity core.Identity
	notifier core.SteamNotifier
	overlay  core.SteamOverlay

	sent     event.Feed[[]domain.Invitation]
	anyJoin  event.Feed[domain.Invitation]
	inGame   event.Feed[domain.Invitation]
	launched event.Feed[domain.Invitation]

	mu            sync.Mutex
	initialized   bool
	overlayHandle core.OverlayHandle
	cancel        context.CancelFunc
	ctx           context.Context
	unsubs        []func()
}

var _ core.InvitationService = (*Service)(nil)

// New wires the service. Presence publishes go through pub with the given
// retry budget; overlay may be nil when no VR runtime is present.
func New(identity core.Identity, notifier core.SteamNotifier, overlay core.SteamOverlay, pub presence.Publisher, cfg presence.Config) *Service {
	return &Service{
		state:    presence.NewState(identity.PlayerID(), presence.SteamShape{}, pub, cfg),
		identity: identity,
		notifier: notifier,
		overlay:  overlay,
	}
}

func (s *Service) Presence() *presence.State { return s.state }

// Initialize publishes the local player's own presence, acquires the overlay
// handle and registers platform callbacks. No-op when already initialized or
// when the identity collaborator is not ready yet.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized || !s.identity.Ready() {
		return nil
	}

	s.ctx, s.cancel = context.WithCancel(ctx)

	if err := s.state.SetMine(s.ctx); err != nil {
		log.Warn().Err(err).Str("module", "adapters.steam").Msg("initial presence publish failed")
	}

	if s.overlay != nil {
		h, err := s.overlay.CreateOverlay(s.ctx, overlayKey, overlayName)
		if err != nil {
			log.Warn().Err(err).Str("module", "adapters.steam").Msg("failed to create overlay")
		} else {
			s.overlayHandle = h
		}
	}

	s.unsubs = append(s.unsubs,
		s.notifier.JoinRequested().Subscribe(s.handleJoinRequested),
		s.notifier.FriendPresenceUpdated().Subscribe(s.handleFriendUpdate),
	)

	s.initialized = true
	log.Info().Str("module", "adapters.steam").Msg("service initialized")
	return nil
}

// Terminate releases the overlay handle and unregisters callbacks. Safe to
// call when Initialize never ran or only partially succeeded.
func (s *Service) Terminate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil

	if s.overlayHandle != 0 && s.overlay != nil {
		if err := s.overlay.DestroyOverlay(context.Background(), s.overlayHandle); err != nil {
			log.Warn().Err(err).Str("module", "adapters.steam").Msg("failed to destroy overlay")
		}
		s.overlayHandle = 0
	}

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.initialized = false
	log.Info().Str("module", "adapters.steam").Msg("service terminated")
	return nil
}

func (s *Service) InvitationSent() *event.Feed[[]domain.Invitation] { return &s.sent }
func (s *Service) AnyJoinIntent() *event.Feed[domain.Invitation]    { return &s.anyJoin }
func (s *Service) InGameIntent() *event.Feed[domain.Invitation]     { return &s.inGame }
func (s *Service) AppLaunched() *event.Feed[domain.Invitation]      { return &s.launched }

// handleJoinRequested turns a rich-presence join-requested notification into
// a normalized invitation. Malformed connect strings, self notifications and
// self-invitations are dropped without raising anything.
func (s *Service) handleJoinRequested(n core.SteamJoinRequest) {
	if n.Connect == "" || n.Self {
		return
	}
	senderID, ok := s.state.ExtractOwnerID(n.Connect)
	if !ok {
		log.Warn().Str("module", "adapters.steam").Str("connect", n.Connect).
			Msg("failed to extract owner id from connect string")
		return
	}
	if senderID == "" || senderID == s.state.OwnerID() {
		return
	}

	inv := domain.Invitation{
		Platform:          domain.PlatformSteam,
		PresenceType:      domain.PresenceInGame,
		SenderID:          senderID,
		SenderDisplayName: n.Nickname,
		InvitationID:      n.Connect,
		AdditionalData:    n.Connect,
	}

	s.anyJoin.Publish(inv)
	s.inGame.Publish(inv)
}

// handleFriendUpdate detects an accepted outgoing invite: a friend whose
// connect string decodes to our own id just targeted us. The invitee list is
// not tracked, so the event payload is nil.
func (s *Service) handleFriendUpdate(u core.SteamFriendUpdate) {
	if u.Self {
		return
	}
	connect, err := s.notifier.ReadRichPresence(s.ctx, u.FriendID, presence.RichPresenceKey)
	if err != nil {
		log.Warn().Err(err).Str("module", "adapters.steam").Str("friend", u.FriendID).
			Msg("failed to read friend rich presence")
		return
	}
	id, ok := s.state.ExtractOwnerID(connect)
	if !ok || id != s.state.OwnerID() {
		return
	}
	s.sent.Publish(nil)
}
