// Package draft holds in-progress expense splits on behalf of API callers.
//
// The calculator is stateless; a Draft is the caller-owned state it operates
// on. Every edit replaces the draft's entry list wholesale, so concurrent
// edits to the same draft resolve last-write-wins.
package draft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitshare/internal/calculator"
	"github.com/mmynk/splitshare/internal/models"
)

var (
	ErrNotFound           = errors.New("draft not found")
	ErrStrategyMismatch   = errors.New("edit not allowed for split strategy")
	ErrUnknownParticipant = errors.New("participant is not part of the split")
	ErrInvalidSplit       = errors.New("split does not reconcile to the total")
)

const msgEmptySplit = "Enter an amount and at least one participant"

// Edit kinds, also used as metric labels.
const (
	EditPercentage = "percentage"
	EditAmount     = "amount"
)

// Recorder receives draft lifecycle events. *metrics.Metrics implements it.
type Recorder interface {
	SplitInitialized(strategy models.Strategy)
	ShareEdited(kind string)
	SplitValidated(strategy models.Strategy, ok bool)
	DraftsActive(n int)
}

// Input is everything that, when changed, resets a split.
type Input struct {
	Strategy     models.Strategy
	Total        float64
	Participants []models.Participant
	PayerID      string
}

// Draft is a split being edited.
type Draft struct {
	ID           string               `json:"id"`
	Strategy     models.Strategy      `json:"strategy"`
	Total        float64              `json:"total"`
	PayerID      string               `json:"payer_id,omitempty"`
	Participants []models.Participant `json:"participants"`
	Entries      []models.ShareEntry  `json:"entries"`
	Aggregates   models.Aggregates    `json:"aggregates"`
	CanSubmit    bool                 `json:"can_submit"`
	Problems     []string             `json:"problems,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// Options configures a Store.
type Options struct {
	// TTL is how long an untouched draft is kept. Zero keeps drafts forever.
	TTL time.Duration

	Recorder Recorder

	// Now overrides the clock in tests.
	Now func() time.Time
}

// Store is an in-memory, concurrency-safe set of drafts.
type Store struct {
	mu     sync.Mutex
	drafts map[string]*Draft

	ttl      time.Duration
	recorder Recorder
	now      func() time.Time
}

// NewStore creates an empty Store.
func NewStore(opts Options) *Store {
	s := &Store{
		drafts:   make(map[string]*Draft),
		ttl:      opts.TTL,
		recorder: opts.Recorder,
		now:      opts.Now,
	}
	if s.recorder == nil {
		s.recorder = nopRecorder{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Create starts a new draft from input.
func (s *Store) Create(input Input) *Draft {
	now := s.now()
	d := &Draft{
		ID:        uuid.New().String(),
		CreatedAt: now,
	}
	s.reset(d, input, now)

	s.mu.Lock()
	s.drafts[d.ID] = d
	n := len(s.drafts)
	out := d.clone()
	s.mu.Unlock()

	s.recorder.DraftsActive(n)
	slog.Debug("Draft created", "draft_id", d.ID, "strategy", d.Strategy, "participants", len(d.Participants))
	return out
}

// Get returns a copy of the draft.
func (s *Store) Get(id string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return d.clone(), nil
}

// Reset replaces the draft's input and rebuilds its split from scratch,
// discarding any manual edits.
func (s *Store) Reset(id string, input Input) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.reset(d, input, s.now())
	return d.clone(), nil
}

// EditPercentage applies a user-typed percentage to one participant's share.
// The draft must use the percentage strategy.
func (s *Store) EditPercentage(id, participantID, raw string) (*Draft, error) {
	return s.edit(id, participantID, models.StrategyPercentage, EditPercentage, func(d *Draft) []models.ShareEntry {
		return calculator.UpdatePercentage(d.Entries, d.Total, participantID, calculator.ParseNumber(raw))
	})
}

// EditAmount applies a user-typed amount to one participant's share.
// The draft must use the exact strategy.
func (s *Store) EditAmount(id, participantID, raw string) (*Draft, error) {
	return s.edit(id, participantID, models.StrategyExact, EditAmount, func(d *Draft) []models.ShareEntry {
		return calculator.UpdateExactAmount(d.Entries, d.Total, participantID, calculator.ParseNumber(raw))
	})
}

// Submit checks the draft and, when it can be submitted, removes it and
// returns its final state. Otherwise the draft is kept and the returned error
// wraps ErrInvalidSplit; the returned draft carries the problems.
func (s *Store) Submit(id string) (*Draft, error) {
	s.mu.Lock()
	d, ok := s.drafts[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	out := d.clone()
	if out.CanSubmit {
		delete(s.drafts, id)
	}
	n := len(s.drafts)
	s.mu.Unlock()

	s.recorder.SplitValidated(out.Strategy, out.CanSubmit)
	if !out.CanSubmit {
		return out, fmt.Errorf("%w: %v", ErrInvalidSplit, out.Problems)
	}
	s.recorder.DraftsActive(n)
	return out, nil
}

// Delete discards a draft.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	_, ok := s.drafts[id]
	delete(s.drafts, id)
	n := len(s.drafts)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.recorder.DraftsActive(n)
	return nil
}

// Len returns the number of drafts held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

// Sweep drops drafts not updated within the TTL and returns how many were
// dropped.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	dropped := 0
	for id, d := range s.drafts {
		if now.Sub(d.UpdatedAt) > s.ttl {
			delete(s.drafts, id)
			dropped++
		}
	}
	n := len(s.drafts)
	s.mu.Unlock()

	if dropped > 0 {
		s.recorder.DraftsActive(n)
		slog.Info("Expired drafts dropped", "count", dropped, "remaining", n)
	}
	return dropped
}

// Run sweeps expired drafts every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(s.now())
		}
	}
}

func (s *Store) edit(id, participantID string, want models.Strategy, kind string, apply func(d *Draft) []models.ShareEntry) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if d.Strategy != want {
		return nil, fmt.Errorf("%w: %s edit on %s split", ErrStrategyMismatch, kind, d.Strategy)
	}
	if !slices.ContainsFunc(d.Entries, func(e models.ShareEntry) bool { return e.ParticipantID == participantID }) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParticipant, participantID)
	}

	d.Entries = apply(d)
	d.refresh(s.now())
	s.recorder.ShareEdited(kind)
	return d.clone(), nil
}

// reset must be called with s.mu held, or before d is published.
func (s *Store) reset(d *Draft, input Input, now time.Time) {
	d.Strategy = input.Strategy
	d.Total = input.Total
	d.PayerID = input.PayerID
	d.Participants = slices.Clone(input.Participants)
	if d.Participants == nil {
		d.Participants = []models.Participant{}
	}
	d.Entries = calculator.Initialize(input.Strategy, input.Total, input.Participants, input.PayerID)
	d.refresh(now)
	s.recorder.SplitInitialized(input.Strategy)
}

// refresh recomputes the derived fields after the entries changed.
func (d *Draft) refresh(now time.Time) {
	d.Aggregates = calculator.ComputeAggregates(d.Entries, d.Total)
	d.CanSubmit = d.Aggregates.CanSubmit(d.Strategy)
	d.Problems = calculator.Problems(d.Strategy, d.Total, d.Aggregates)
	if len(d.Entries) == 0 {
		d.CanSubmit = false
		d.Problems = []string{msgEmptySplit}
	}
	d.UpdatedAt = now
}

func (d *Draft) clone() *Draft {
	c := *d
	c.Participants = slices.Clone(d.Participants)
	c.Entries = slices.Clone(d.Entries)
	c.Problems = slices.Clone(d.Problems)
	return &c
}

type nopRecorder struct{}

func (nopRecorder) SplitInitialized(models.Strategy)     {}
func (nopRecorder) ShareEdited(string)                   {}
func (nopRecorder) SplitValidated(models.Strategy, bool) {}
func (nopRecorder) DraftsActive(int)                     {}
