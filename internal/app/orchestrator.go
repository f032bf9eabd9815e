package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"

	"github.com/ArifEmreBahar/PresenceLink/internal/core"
	"github.com/ArifEmreBahar/PresenceLink/internal/domain"
	"github.com/ArifEmreBahar/PresenceLink/internal/event"
)

var errRoomNotFound = errors.New("inviter room not found")

// Phase is the join workflow state, exposed for the debug surface.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseResolving
	PhaseJoining
	PhaseAborted
)

func (p Phase) String() string {
	switch p {
	case PhaseResolving:
		return "resolving"
	case PhaseJoining:
		return "joining"
	case PhaseAborted:
		return "aborted"
	default:
		return "idle"
	}
}

// OrchestratorConfig bounds the room-resolution poll loop.
type OrchestratorConfig struct {
	// PollAttempts is the total number of room lookups (initial + retries).
	PollAttempts int
	// PollInterval is the wait between lookups that came back empty.
	PollInterval time.Duration
}

func DefaultOrchestratorConfig() OrchestratorConfig {
	return OrchestratorConfig{PollAttempts: 8, PollInterval: time.Second}
}

// Orchestrator runs the accept-invitation workflow: wait for the inviter's
// room to exist, join it, and reconcile every outcome back into presence.
// A single atomic guard drops (not queues) invitations that arrive while an
// attempt is in flight. No failure here is ever fatal; every terminal branch
// restores presence to the player's own default and releases the guard.
type Orchestrator struct {
	Manager *Manager
	Rooms   core.RoomSession
	Cfg     OrchestratorConfig

	attempting atomic.Bool
	phase      atomic.Int32

	noInviterRoom event.Feed[domain.Invitation]
	joinFailed    event.Feed[domain.Invitation]
	noRoomSent    event.Feed[domain.Invitation]

	mu     sync.Mutex
	cancel context.CancelFunc
	ctx    context.Context
	unsubs []func()
}

// NoInviterRoom fires when polling exhausted without finding the inviter's
// room. The payload is the original invitation.
func (o *Orchestrator) NoInviterRoom() *event.Feed[domain.Invitation] { return &o.noInviterRoom }

// JoinInvitorRoomFailed fires when a room join fails. The payload is a fresh
// empty invitation; stale sender details are deliberately not preserved.
func (o *Orchestrator) JoinInvitorRoomFailed() *event.Feed[domain.Invitation] { return &o.joinFailed }

// NoRoomInvitationSent fires when invitations went out while the local
// player has no room for the invitees to land in.
func (o *Orchestrator) NoRoomInvitationSent() *event.Feed[domain.Invitation] { return &o.noRoomSent }

// Phase reports the current workflow state.
func (o *Orchestrator) Phase() Phase { return Phase(o.phase.Load()) }

// Start registers all subscriptions. The derived context cancels in-flight
// polls and joins on Stop, which is the shutdown hook for process teardown.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		return
	}
	// Zero fields fall back to defaults independently; a zero interval must
	// never reach the retry backoff.
	def := DefaultOrchestratorConfig()
	if o.Cfg.PollAttempts <= 0 {
		o.Cfg.PollAttempts = def.PollAttempts
	}
	if o.Cfg.PollInterval <= 0 {
		o.Cfg.PollInterval = def.PollInterval
	}
	o.ctx, o.cancel = context.WithCancel(ctx)

	o.unsubs = []func(){
		o.Manager.InvitationAccepted().Subscribe(func(inv domain.Invitation) {
			// Platform callbacks may arrive on any goroutine; the
			// workflow runs on its own so the delivering one is
			// never blocked by the poll loop.
			go o.handleAccepted(inv)
		}),
		o.Manager.InvitationSent().Subscribe(o.handleInvitationSent),
		o.Rooms.PlayerLeft().Subscribe(func(domain.PlayerID) { o.resetPresence() }),
		o.Rooms.Left().Subscribe(func(struct{}) { o.resetPresence() }),
		o.Rooms.JoinFailed().Subscribe(o.handleJoinRoomFailed),
	}
}

// Stop cancels in-flight work and removes all subscriptions.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel == nil {
		return
	}
	o.cancel()
	o.cancel = nil
	for _, unsub := range o.unsubs {
		unsub()
	}
	o.unsubs = nil
}

// handleAccepted is the Idle -> Resolving -> (Joining | Aborted) state
// machine for one accepted invitation.
func (o *Orchestrator) handleAccepted(inv domain.Invitation) {
	if !o.attempting.CompareAndSwap(false, true) {
		log.Info().Str("module", "app.orchestrator").Str("sender", string(inv.SenderID)).
			Msg("join attempt already in flight, invitation dropped")
		return
	}
	defer func() {
		o.attempting.Store(false)
		o.phase.Store(int32(PhaseIdle))
	}()

	ctx := o.ctx
	if inv.SenderID == "" || ctx == nil {
		return
	}

	o.phase.Store(int32(PhaseResolving))
	if err := o.Manager.SetPresence(ctx, inv); err != nil {
		log.Warn().Err(err).Str("module", "app.orchestrator").Msg("failed to set presence toward inviter")
	}

	roomName := o.resolveRoom(ctx, inv.SenderID)
	if ctx.Err() != nil {
		return
	}

	// Duplicate accept of an invitation to the room we already occupy:
	// nothing to do.
	if roomName != "" && o.Rooms.InRoom() && o.Rooms.CurrentRoom() == roomName {
		return
	}

	if roomName == "" {
		o.phase.Store(int32(PhaseAborted))
		o.resetPresence()
		o.attempting.Store(false)
		o.noInviterRoom.Publish(inv)
		return
	}

	o.phase.Store(int32(PhaseJoining))
	o.joinRoom(ctx, roomName)
}

// resolveRoom polls the room directory until the inviter's room shows up or
// the attempt budget runs out. Returns "" when no room was found.
func (o *Orchestrator) resolveRoom(ctx context.Context, owner domain.PlayerID) domain.RoomName {
	var roomName domain.RoomName
	b := retry.WithMaxRetries(uint64(o.Cfg.PollAttempts-1), retry.NewConstant(o.Cfg.PollInterval))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		name, err := o.Rooms.RoomName(ctx, owner)
		if err != nil {
			log.Warn().Err(err).Str("module", "app.orchestrator").Msg("room lookup failed")
			return retry.RetryableError(err)
		}
		if name == "" {
			return retry.RetryableError(errRoomNotFound)
		}
		roomName = name
		return nil
	})
	if err != nil {
		return ""
	}
	return roomName
}

// joinRoom issues the join and waits for exactly one of joined/failed. Both
// one-shot listeners feed a single buffered channel, so the guard is
// released exactly once no matter which fires.
func (o *Orchestrator) joinRoom(ctx context.Context, roomName domain.RoomName) {
	type outcome struct{ joined bool }
	results := make(chan outcome, 2)

	unsubJoined := o.Rooms.Joined().Subscribe(func(domain.RoomName) {
		results <- outcome{joined: true}
	})
	unsubFailed := o.Rooms.JoinFailed().Subscribe(func(domain.RoomName) {
		results <- outcome{joined: false}
	})
	defer unsubJoined()
	defer unsubFailed()

	if err := o.Rooms.Join(ctx, roomName); err != nil {
		log.Error().Err(err).Str("module", "app.orchestrator").Str("room", string(roomName)).
			Msg("join request failed")
		o.handleJoinRoomFailed(roomName)
		return
	}

	select {
	case <-ctx.Done():
	case res := <-results:
		if res.joined && o.Rooms.InRoom() && o.Rooms.MenuState() == domain.MenuQuickMatch {
			o.Rooms.SwitchToRoomState()
		}
	}
}

// handleJoinRoomFailed is always-on: any failed join, orchestrated or not,
// resets presence and reports the failure with an empty invitation payload.
func (o *Orchestrator) handleJoinRoomFailed(domain.RoomName) {
	o.resetPresence()
	o.joinFailed.Publish(domain.Invitation{})
}

// handleInvitationSent warns the inviter-side player when invitations went
// out before any room exists for the invitees to land in.
func (o *Orchestrator) handleInvitationSent([]domain.Invitation) {
	if o.Rooms.InRoom() {
		return
	}
	o.noRoomSent.Publish(domain.Invitation{
		AdditionalData: "Invitation sent. Please create a room before the invited player accepts.",
	})
}

// resetPresence reverts to the player's own default presence. Best effort;
// presence failures never escalate.
func (o *Orchestrator) resetPresence() {
	ctx := o.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := o.Manager.SetPresenceMine(ctx); err != nil {
		log.Warn().Err(err).Str("module", "app.orchestrator").Msg("failed to reset presence")
	}
}
