package presence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-retry"

	"github.com/ArifEmreBahar/PresenceLink/internal/domain"
)

// ErrPublishFailed marks a publish that exhausted its retry budget.
var ErrPublishFailed = errors.New("presence publish failed")

// Publisher pushes one descriptor to the platform's social layer. Errors are
// treated as transient and retried by State.Set up to its configured budget.
type Publisher interface {
	Publish(ctx context.Context, d Descriptor) error
}

// Config bounds the publish retry loop. The platform publish call can fail
// transiently, so it is retried with a constant backoff; a final failure is
// surfaced instead of looping forever.
type Config struct {
	// MaxAttempts is the total number of publish attempts (initial + retries).
	MaxAttempts uint64
	// Backoff is the constant wait between attempts.
	Backoff time.Duration
	// LocalOnly skips the platform entirely and records success
	// unconditionally. Used when no native social layer is available, e.g.
	// a non-distributable dev build.
	LocalOnly bool
}

// DefaultConfig matches the production behavior: up to 8 tries, 1s apart.
func DefaultConfig() Config {
	return Config{MaxAttempts: 8, Backoff: time.Second}
}

// State is the per-platform record of the last successfully published
// presence. One instance exists per running service; all publishes funnel
// through Set, which serializes them so no two are ever in flight at once.
type State struct {
	ownerID domain.PlayerID
	shape   Shape
	pub     Publisher
	cfg     Config

	// setMu serializes whole publish attempts; mu guards the three
	// published fields, which always change as one unit.
	setMu sync.Mutex
	mu    sync.RWMutex

	current      string
	joinable     bool
	presenceType domain.PresenceType
}

// Snapshot is a consistent read of the published fields.
type Snapshot struct {
	OwnerID      domain.PlayerID
	Current      string
	Joinable     bool
	PresenceType domain.PresenceType
}

// NewState builds a State for one platform. ownerID may be empty when the
// local player's identity is unknown; SetMine then becomes a no-op. Zero
// retry fields fall back to their defaults field by field, so LocalOnly
// survives an otherwise empty config and a zero backoff never reaches the
// retry loop.
func NewState(ownerID domain.PlayerID, shape Shape, pub Publisher, cfg Config) *State {
	def := DefaultConfig()
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = def.Backoff
	}
	return &State{ownerID: ownerID, shape: shape, pub: pub, cfg: cfg}
}

func (s *State) OwnerID() domain.PlayerID { return s.ownerID }

// Set publishes presence pointing at target and records the outcome locally
// only once the platform accepted it. Transient platform failures are retried
// in place; the local record never reflects an unacknowledged publish.
func (s *State) Set(ctx context.Context, target domain.PlayerID, t domain.PresenceType) error {
	s.setMu.Lock()
	defer s.setMu.Unlock()

	d := s.shape.Descriptor(target)

	if !s.cfg.LocalOnly {
		b := retry.WithMaxRetries(s.cfg.MaxAttempts-1, retry.NewConstant(s.cfg.Backoff))
		err := retry.Do(ctx, b, func(ctx context.Context) error {
			if perr := s.pub.Publish(ctx, d); perr != nil {
				log.Warn().Err(perr).Str("module", "presence").
					Str("lobby", d.LobbySessionID).Msg("presence publish failed, retrying")
				return retry.RetryableError(perr)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("%w: lobby %q: %w", ErrPublishFailed, d.LobbySessionID, err)
		}
	}

	s.mu.Lock()
	s.current = Encode(target)
	s.joinable = d.Joinable
	s.presenceType = t
	s.mu.Unlock()

	log.Info().Str("module", "presence").Str("current", Encode(target)).
		Stringer("type", t).Msg("presence set")
	return nil
}

// SetMine resets presence to the owner's own default. Without an owner id
// there is nothing to advertise and the call succeeds immediately.
func (s *State) SetMine(ctx context.Context) error {
	if s.ownerID == "" {
		return nil
	}
	return s.Set(ctx, s.ownerID, domain.PresenceNormal)
}

// ExtractOwnerID decodes an inbound descriptor string using this platform's
// shape. The bool mirrors the codec contract: false means "not ours".
func (s *State) ExtractOwnerID(descriptor string) (domain.PlayerID, bool) {
	id, err := s.shape.Extract(descriptor)
	if err != nil {
		return "", false
	}
	return id, true
}

// Current returns the last successfully published presence string, or "".
func (s *State) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *State) Snap() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		OwnerID:      s.ownerID,
		Current:      s.current,
		Joinable:     s.joinable,
		PresenceType: s.presenceType,
	}
}
