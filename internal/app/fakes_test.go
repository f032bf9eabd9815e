package app

import (
	"context"
	"sync"
	"time"

	"github.com/ArifEmreBahar/PresenceLink/internal/core"
	"github.com/ArifEmreBahar/PresenceLink/internal/domain"
	"github.com/ArifEmreBahar/PresenceLink/internal/event"
	"github.com/ArifEmreBahar/PresenceLink/internal/presence"
)

// fakeService is a controllable InvitationService: local-only presence, feeds
// the tests publish into directly.
type fakeService struct {
	state *presence.State

	sent     event.Feed[[]domain.Invitation]
	anyJoin  event.Feed[domain.Invitation]
	inGame   event.Feed[domain.Invitation]
	launched event.Feed[domain.Invitation]

	mu         sync.Mutex
	inits      int
	terminates int
	initErr    error
}

func newFakeService(ownerID domain.PlayerID) *fakeService {
	cfg := presence.Config{MaxAttempts: 1, Backoff: time.Millisecond, LocalOnly: true}
	return &fakeService{state: presence.NewState(ownerID, presence.SteamShape{}, nil, cfg)}
}

func (f *fakeService) Presence() *presence.State { return f.state }

func (f *fakeService) Initialize(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits++
	return f.initErr
}

func (f *fakeService) Terminate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminates++
	return nil
}

func (f *fakeService) InvitationSent() *event.Feed[[]domain.Invitation] { return &f.sent }
func (f *fakeService) AnyJoinIntent() *event.Feed[domain.Invitation]    { return &f.anyJoin }
func (f *fakeService) InGameIntent() *event.Feed[domain.Invitation]     { return &f.inGame }
func (f *fakeService) AppLaunched() *event.Feed[domain.Invitation]      { return &f.launched }

type fakeFactory struct {
	svc *fakeService
}

func (f fakeFactory) Create(core.Identity) core.InvitationService { return f.svc }

// fakeRooms is a scriptable RoomSession: lookup responses are consumed in
// order, outcomes are driven by publishing into the feeds.
type fakeRooms struct {
	mu        sync.Mutex
	responses []domain.RoomName
	lookups   int
	joinCalls []domain.RoomName
	joinErr   error
	inRoom    bool
	current   domain.RoomName
	menu      domain.MenuState
	switched  int

	joined     event.Feed[domain.RoomName]
	joinFailed event.Feed[domain.RoomName]
	playerLeft event.Feed[domain.PlayerID]
	left       event.Feed[struct{}]
}

func (f *fakeRooms) RoomName(context.Context, domain.PlayerID) (domain.RoomName, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if len(f.responses) == 0 {
		return "", nil
	}
	name := f.responses[0]
	f.responses = f.responses[1:]
	return name, nil
}

func (f *fakeRooms) Join(_ context.Context, name domain.RoomName) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joinCalls = append(f.joinCalls, name)
	return f.joinErr
}

func (f *fakeRooms) InRoom() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inRoom
}

func (f *fakeRooms) CurrentRoom() domain.RoomName {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeRooms) MenuState() domain.MenuState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.menu
}

func (f *fakeRooms) SwitchToRoomState() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.switched++
}

func (f *fakeRooms) setRoom(inRoom bool, name domain.RoomName) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inRoom = inRoom
	f.current = name
}

func (f *fakeRooms) lookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}

func (f *fakeRooms) joins() []domain.RoomName {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.RoomName, len(f.joinCalls))
	copy(out, f.joinCalls)
	return out
}

func (f *fakeRooms) switchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.switched
}

func (f *fakeRooms) Joined() *event.Feed[domain.RoomName]     { return &f.joined }
func (f *fakeRooms) JoinFailed() *event.Feed[domain.RoomName] { return &f.joinFailed }
func (f *fakeRooms) PlayerLeft() *event.Feed[domain.PlayerID] { return &f.playerLeft }
func (f *fakeRooms) Left() *event.Feed[struct{}]              { return &f.left }

var _ core.RoomSession = (*fakeRooms)(nil)
