package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/govdash/internal/domain/navigation"
	"github.com/okian/govdash/pkg/logger"
	"github.com/okian/govdash/pkg/metrics"
)

// Session is one client's navigation shell. At most one activation is
// outstanding; starting another cancels it.
type Session struct {
	id string

	mu         sync.Mutex
	state      navigation.State
	activation uuid.UUID
	cancel     context.CancelFunc
	lastSeen   time.Time
}

// ID returns the session identifier carried by the client.
func (s *Session) ID() string { return s.id }

// State returns the currently selected view.
func (s *Session) State() navigation.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// begin selects requested and opens a new activation, cancelling any
// outstanding one. The returned context ends when the activation is superseded.
func (s *Session) begin(ctx context.Context, requested string, now time.Time) (navigation.State, uuid.UUID, context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.state = navigation.Select(s.state, requested)
	s.activation = uuid.New()
	actx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.lastSeen = now
	return s.state, s.activation, actx
}

// finish reports whether id is still the current activation and, if so,
// closes it.
func (s *Session) finish(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activation != id {
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}

func (s *Session) abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.activation = uuid.Nil
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// Shell is the result of one activation: the selected tab and its view.
type Shell struct {
	SessionID  string               `json:"session_id"`
	Activation string               `json:"activation"`
	Active     navigation.ViewID    `json:"active"`
	Sections   []navigation.Section `json:"sections"`
	View       Document             `json:"view"`
}

// Activate selects requested in sess and renders it. If another activation
// starts on sess before this one finishes, this one's fetch is cancelled and
// ErrStaleActivation is returned in place of its result.
func (s *Service) Activate(ctx context.Context, sess *Session, requested string) (Shell, error) {
	state, id, actx := sess.begin(ctx, requested, s.now())

	doc, err := s.Render(actx, state.Active)
	if err != nil {
		sess.finish(id)
		return Shell{}, err
	}
	if !sess.finish(id) {
		s.stale.Add(1)
		metrics.RecordStaleActivation()
		s.logger.Debug(ctx, "discarded stale view",
			logger.String("view", string(state.Active)),
			logger.String("activation", id.String()),
		)
		return Shell{}, ErrStaleActivation
	}

	return Shell{
		SessionID:  sess.id,
		Activation: id.String(),
		Active:     state.Active,
		Sections:   navigation.Sections(),
		View:       doc,
	}, nil
}

// Navigate activates requested in the session named sessionID, opening a new
// session when the id is unknown or expired. The returned Shell names the
// session actually used.
func (s *Service) Navigate(ctx context.Context, sessionID, requested string) (Shell, error) {
	return s.Activate(ctx, s.sessions.Open(sessionID), requested)
}

// Sessions tracks shell sessions by id, evicting idle ones.
type Sessions struct {
	mu      sync.Mutex
	byID    map[string]*Session
	idleTTL time.Duration
	max     int
	now     func() time.Time
}

// NewSessions creates a registry. Sessions untouched for idleTTL are evicted
// by Sweep; when maxSessions is reached the least recently used one is dropped.
func NewSessions(idleTTL time.Duration, maxSessions int, now func() time.Time) *Sessions {
	if now == nil {
		now = time.Now
	}
	return &Sessions{
		byID:    make(map[string]*Session),
		idleTTL: idleTTL,
		max:     maxSessions,
		now:     now,
	}
}

// Open returns the live session named id, or a new one when id is unknown,
// malformed or expired.
func (r *Sessions) Open(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if sess, ok := r.byID[id]; ok {
		if now.Sub(sess.idleSince()) <= r.idleTTL {
			sess.touch(now)
			return sess
		}
		r.removeLocked(id)
	}

	if r.max > 0 && len(r.byID) >= r.max {
		r.evictOldestLocked()
	}
	sess := &Session{id: uuid.NewString(), state: navigation.Initial(), lastSeen: now}
	r.byID[sess.id] = sess
	metrics.UpdateActiveSessions(len(r.byID))
	return sess
}

// Get returns the session named id without creating one.
func (r *Sessions) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.byID[id]
	return sess, ok
}

// Len returns the number of tracked sessions.
func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// Sweep evicts idle sessions and returns how many were removed.
func (r *Sessions) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	var idle []string
	for id, sess := range r.byID {
		if now.Sub(sess.idleSince()) > r.idleTTL {
			idle = append(idle, id)
		}
	}
	for _, id := range idle {
		r.removeLocked(id)
	}
	metrics.UpdateActiveSessions(len(r.byID))
	return len(idle)
}

// Clear drops every session, cancelling outstanding activations.
func (r *Sessions) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.byID {
		r.removeLocked(id)
	}
	metrics.UpdateActiveSessions(0)
}

func (r *Sessions) removeLocked(id string) {
	if sess, ok := r.byID[id]; ok {
		sess.abort()
		delete(r.byID, id)
	}
}

func (r *Sessions) evictOldestLocked() {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	oldest := slices.MinFunc(ids, func(a, b string) int {
		return r.byID[a].idleSince().Compare(r.byID[b].idleSince())
	})
	r.removeLocked(oldest)
}
