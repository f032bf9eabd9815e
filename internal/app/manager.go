// Package app coordinates the invitation layer: the manager owns the single
// active platform service, the orchestrator runs the accept-invitation join
// workflow.
package app

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/ArifEmreBahar/PresenceLink/internal/core"
	"github.com/ArifEmreBahar/PresenceLink/internal/domain"
	"github.com/ArifEmreBahar/PresenceLink/internal/event"
	"github.com/ArifEmreBahar/PresenceLink/internal/presence"
)

// ErrNotInitialized reports an operation attempted before Initialize (or
// after Terminate). Callers log it and move on; it is never fatal.
var ErrNotInitialized = errors.New("invitation manager not initialized")

// Factory builds the one platform service the manager will own.
type Factory interface {
	Create(identity core.Identity) core.InvitationService
}

// Manager holds exactly one active InvitationService and re-exposes its
// events under stable names. Terminate followed by Initialize must cycle
// cleanly without leaked subscriptions.
type Manager struct {
	identity core.Identity
	factory  Factory

	mu          sync.Mutex
	initialized bool
	svc         core.InvitationService
	unsubs      []func()

	accepted event.Feed[domain.Invitation]
	sent     event.Feed[[]domain.Invitation]
}

func NewManager(identity core.Identity, factory Factory) *Manager {
	return &Manager{identity: identity, factory: factory}
}

// Initialize builds and starts the platform service and subscribes to its
// events. Calling it twice is a logged no-op, not an error.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		log.Warn().Str("module", "app.manager").Msg("already initialized")
		return nil
	}
	if !m.identity.Ready() {
		return errors.New("identity not ready")
	}

	svc := m.factory.Create(m.identity)
	if err := svc.Initialize(ctx); err != nil {
		return err
	}

	m.unsubs = []func(){
		svc.InGameIntent().Subscribe(m.accepted.Publish),
		svc.InvitationSent().Subscribe(m.sent.Publish),
	}
	m.svc = svc
	m.initialized = true

	log.Info().Str("module", "app.manager").Msg("initialized")
	return nil
}

// Terminate stops the service and drops all subscriptions. When not
// initialized it logs and returns without touching the (absent) service.
func (m *Manager) Terminate() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		log.Warn().Str("module", "app.manager").Msg("cannot terminate, not initialized")
		return nil
	}

	err := m.svc.Terminate()

	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
	m.svc = nil
	m.initialized = false

	log.Info().Str("module", "app.manager").Msg("terminated")
	return err
}

// InvitationAccepted fires when an in-game invitation was accepted by a
// remote player and routed to us.
func (m *Manager) InvitationAccepted() *event.Feed[domain.Invitation] { return &m.accepted }

// InvitationSent re-exposes the platform's invitations-sent event. The
// payload is always nil; the platforms expose no recipient list.
func (m *Manager) InvitationSent() *event.Feed[[]domain.Invitation] { return &m.sent }

// SetPresenceMine resets presence to the local player's own default.
func (m *Manager) SetPresenceMine(ctx context.Context) error {
	state, err := m.presenceState()
	if err != nil {
		log.Error().Str("module", "app.manager").Msg("cannot set presence, not initialized")
		return err
	}
	return state.SetMine(ctx)
}

// SetPresence points presence at the invitation's sender.
func (m *Manager) SetPresence(ctx context.Context, inv domain.Invitation) error {
	state, err := m.presenceState()
	if err != nil {
		log.Error().Str("module", "app.manager").Msg("cannot set presence, not initialized")
		return err
	}
	return state.Set(ctx, inv.SenderID, inv.PresenceType)
}

// CurrentPresence returns the last successfully published presence string,
// or "" when uninitialized.
func (m *Manager) CurrentPresence() string {
	state, err := m.presenceState()
	if err != nil {
		return ""
	}
	return state.Current()
}

// Snap exposes the presence record for the debug surface.
func (m *Manager) Snap() (presence.Snapshot, bool) {
	state, err := m.presenceState()
	if err != nil {
		return presence.Snapshot{}, false
	}
	return state.Snap(), true
}

// presenceState does not log: the read-only accessors poll it before
// Initialize and an uninitialized manager is a normal state for them.
func (m *Manager) presenceState() (*presence.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized || m.svc == nil {
		return nil, ErrNotInitialized
	}
	return m.svc.Presence(), nil
}
