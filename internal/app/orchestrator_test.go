package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArifEmreBahar/PresenceLink/internal/domain"
)

const (
	waitFor = 2 * time.Second
	tick    = 2 * time.Millisecond
)

type invSink struct {
	mu   sync.Mutex
	invs []domain.Invitation
}

func (s *invSink) add(inv domain.Invitation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invs = append(s.invs, inv)
}

func (s *invSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.invs)
}

func (s *invSink) all() []domain.Invitation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Invitation, len(s.invs))
	copy(out, s.invs)
	return out
}

func newTestOrchestrator(t *testing.T, rooms *fakeRooms, interval time.Duration) (*Orchestrator, *Manager, *fakeService) {
	t.Helper()
	svc := newFakeService("me")
	mgr := NewManager(StaticIdentity{ID: "me"}, fakeFactory{svc: svc})
	require.NoError(t, mgr.Initialize(context.Background()))

	orch := &Orchestrator{
		Manager: mgr,
		Rooms:   rooms,
		Cfg:     OrchestratorConfig{PollAttempts: 8, PollInterval: interval},
	}
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)
	return orch, mgr, svc
}

func accept(svc *fakeService, sender domain.PlayerID) {
	svc.inGame.Publish(domain.Invitation{
		Platform:     domain.PlatformSteam,
		SenderID:     sender,
		PresenceType: domain.PresenceInGame,
	})
}

func TestOrchestratorZeroConfigFieldsDefaultIndependently(t *testing.T) {
	rooms := &fakeRooms{responses: []domain.RoomName{"room-3"}}
	svc := newFakeService("me")
	mgr := NewManager(StaticIdentity{ID: "me"}, fakeFactory{svc: svc})
	require.NoError(t, mgr.Initialize(context.Background()))

	// Attempts set, interval left zero: only the zero field may change.
	orch := &Orchestrator{
		Manager: mgr,
		Rooms:   rooms,
		Cfg:     OrchestratorConfig{PollAttempts: 4},
	}
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)

	assert.Equal(t, 4, orch.Cfg.PollAttempts)
	assert.Equal(t, DefaultOrchestratorConfig().PollInterval, orch.Cfg.PollInterval)

	// A zero interval would blow up inside the retry backoff constructor and
	// take the per-invitation goroutine down with it.
	accept(svc, "inviter")
	require.Eventually(t, func() bool { return len(rooms.joins()) == 1 }, waitFor, tick)
}

func TestOrchestratorNoInviterRoom(t *testing.T) {
	rooms := &fakeRooms{}
	orch, mgr, svc := newTestOrchestrator(t, rooms, time.Millisecond)

	var noRoom invSink
	orch.NoInviterRoom().Subscribe(noRoom.add)

	accept(svc, "inviter")

	require.Eventually(t, func() bool { return noRoom.count() == 1 }, waitFor, tick)
	assert.Equal(t, 8, rooms.lookupCount())
	assert.Equal(t, domain.PlayerID("inviter"), noRoom.all()[0].SenderID)
	assert.Empty(t, rooms.joins())

	// Presence reverted to the player's own default.
	assert.Equal(t, "AEB#me", mgr.CurrentPresence())

	// Guard released: polling exactly once more proves a fresh attempt ran.
	accept(svc, "inviter")
	require.Eventually(t, func() bool { return noRoom.count() == 2 }, waitFor, tick)
	assert.Equal(t, 16, rooms.lookupCount())
}

func TestOrchestratorJoinsResolvedRoom(t *testing.T) {
	rooms := &fakeRooms{responses: []domain.RoomName{"", "", "room-42"}}
	orch, mgr, svc := newTestOrchestrator(t, rooms, time.Millisecond)

	var noRoom invSink
	orch.NoInviterRoom().Subscribe(noRoom.add)

	accept(svc, "inviter")

	require.Eventually(t, func() bool { return len(rooms.joins()) == 1 }, waitFor, tick)
	assert.Equal(t, 3, rooms.lookupCount())
	assert.Equal(t, domain.RoomName("room-42"), rooms.joins()[0])
	assert.Equal(t, PhaseJoining, orch.Phase())

	// Presence points at the inviter while the attempt is in flight.
	assert.Equal(t, "AEB#inviter", mgr.CurrentPresence())

	// Successful join releases the guard; no menu transition outside
	// quick match.
	rooms.setRoom(true, "room-42")
	rooms.joined.Publish("room-42")

	require.Eventually(t, func() bool { return orch.Phase() == PhaseIdle }, waitFor, tick)
	assert.Zero(t, rooms.switchCount())
	assert.Zero(t, noRoom.count())
}

func TestOrchestratorQuickMatchSwitchesToRoomState(t *testing.T) {
	rooms := &fakeRooms{responses: []domain.RoomName{"room-1"}, menu: domain.MenuQuickMatch}
	orch, _, svc := newTestOrchestrator(t, rooms, time.Millisecond)

	accept(svc, "inviter")
	require.Eventually(t, func() bool { return len(rooms.joins()) == 1 }, waitFor, tick)

	rooms.setRoom(true, "room-1")
	rooms.joined.Publish("room-1")

	require.Eventually(t, func() bool { return rooms.switchCount() == 1 }, waitFor, tick)
	require.Eventually(t, func() bool { return orch.Phase() == PhaseIdle }, waitFor, tick)
}

func TestOrchestratorJoinFailureReleasesGuard(t *testing.T) {
	rooms := &fakeRooms{responses: []domain.RoomName{"room-9"}}
	orch, mgr, svc := newTestOrchestrator(t, rooms, time.Millisecond)

	var failed invSink
	orch.JoinInvitorRoomFailed().Subscribe(failed.add)

	accept(svc, "inviter")
	require.Eventually(t, func() bool { return len(rooms.joins()) == 1 }, waitFor, tick)

	rooms.joinFailed.Publish("room-9")

	require.Eventually(t, func() bool { return failed.count() == 1 }, waitFor, tick)
	require.Eventually(t, func() bool { return orch.Phase() == PhaseIdle }, waitFor, tick)

	// Failure payload is a fresh empty invitation, not the original.
	assert.Equal(t, domain.Invitation{}, failed.all()[0])
	assert.Equal(t, "AEB#me", mgr.CurrentPresence())
}

func TestOrchestratorAlreadyInResolvedRoom(t *testing.T) {
	rooms := &fakeRooms{responses: []domain.RoomName{"room-7"}}
	rooms.setRoom(true, "room-7")
	orch, _, svc := newTestOrchestrator(t, rooms, time.Millisecond)

	var noRoom, failed invSink
	orch.NoInviterRoom().Subscribe(noRoom.add)
	orch.JoinInvitorRoomFailed().Subscribe(failed.add)

	accept(svc, "inviter")

	require.Eventually(t, func() bool { return rooms.lookupCount() == 1 }, waitFor, tick)
	require.Eventually(t, func() bool { return orch.Phase() == PhaseIdle }, waitFor, tick)
	assert.Empty(t, rooms.joins())
	assert.Zero(t, noRoom.count())
	assert.Zero(t, failed.count())

	// Guard released: the next invitation starts a fresh resolution.
	accept(svc, "other")
	require.Eventually(t, func() bool { return rooms.lookupCount() > 1 }, waitFor, tick)
}

func TestOrchestratorDropsConcurrentInvitation(t *testing.T) {
	rooms := &fakeRooms{}
	orch, _, svc := newTestOrchestrator(t, rooms, 20*time.Millisecond)

	var noRoom invSink
	orch.NoInviterRoom().Subscribe(noRoom.add)

	accept(svc, "first")
	require.Eventually(t, func() bool { return rooms.lookupCount() >= 1 }, waitFor, tick)
	accept(svc, "second")

	require.Eventually(t, func() bool { return noRoom.count() == 1 }, waitFor, tick)

	// Only one resolution ran: the second invitation was dropped, not
	// queued.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 8, rooms.lookupCount())
	assert.Equal(t, 1, noRoom.count())
}

func TestOrchestratorIgnoresEmptySender(t *testing.T) {
	rooms := &fakeRooms{}
	orch, _, svc := newTestOrchestrator(t, rooms, time.Millisecond)

	var noRoom invSink
	orch.NoInviterRoom().Subscribe(noRoom.add)

	accept(svc, "")
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, rooms.lookupCount())
	assert.Zero(t, noRoom.count())

	// Guard was not leaked by the early return.
	accept(svc, "inviter")
	require.Eventually(t, func() bool { return noRoom.count() == 1 }, waitFor, tick)
	assert.Equal(t, PhaseIdle, orch.Phase())
}

func TestOrchestratorAlwaysOnPresenceResets(t *testing.T) {
	rooms := &fakeRooms{}
	_, mgr, _ := newTestOrchestrator(t, rooms, time.Millisecond)
	ctx := context.Background()

	require.NoError(t, mgr.SetPresence(ctx, domain.Invitation{SenderID: "inviter", PresenceType: domain.PresenceInGame}))
	rooms.playerLeft.Publish("someone")
	assert.Equal(t, "AEB#me", mgr.CurrentPresence())

	require.NoError(t, mgr.SetPresence(ctx, domain.Invitation{SenderID: "inviter", PresenceType: domain.PresenceInGame}))
	rooms.left.Publish(struct{}{})
	assert.Equal(t, "AEB#me", mgr.CurrentPresence())
}

func TestOrchestratorExternalJoinFailure(t *testing.T) {
	rooms := &fakeRooms{}
	orch, mgr, _ := newTestOrchestrator(t, rooms, time.Millisecond)

	var failed invSink
	orch.JoinInvitorRoomFailed().Subscribe(failed.add)

	require.NoError(t, mgr.SetPresence(context.Background(), domain.Invitation{SenderID: "inviter"}))
	rooms.joinFailed.Publish("some-room")

	assert.Equal(t, 1, failed.count())
	assert.Equal(t, domain.Invitation{}, failed.all()[0])
	assert.Equal(t, "AEB#me", mgr.CurrentPresence())
}

func TestOrchestratorNoRoomInvitationSent(t *testing.T) {
	rooms := &fakeRooms{}
	orch, _, svc := newTestOrchestrator(t, rooms, time.Millisecond)

	var advisory invSink
	orch.NoRoomInvitationSent().Subscribe(advisory.add)

	// Not in a room: warn the inviter.
	svc.sent.Publish(nil)
	require.Equal(t, 1, advisory.count())
	assert.NotEmpty(t, advisory.all()[0].AdditionalData)

	// In a room: nothing to warn about.
	rooms.setRoom(true, "room-1")
	svc.sent.Publish(nil)
	assert.Equal(t, 1, advisory.count())
}

func TestOrchestratorStopCancelsInFlight(t *testing.T) {
	rooms := &fakeRooms{}
	orch, _, svc := newTestOrchestrator(t, rooms, 50*time.Millisecond)

	var noRoom invSink
	orch.NoInviterRoom().Subscribe(noRoom.add)

	accept(svc, "inviter")
	require.Eventually(t, func() bool { return rooms.lookupCount() >= 1 }, waitFor, tick)

	orch.Stop()

	// The poll loop stops without reaching a terminal notification.
	time.Sleep(100 * time.Millisecond)
	assert.Less(t, rooms.lookupCount(), 8)
	assert.Zero(t, noRoom.count())
}
