// Package store holds the committed workshop State in memory, backed by a
// durable snapshot, and serializes every change through a single worker
// goroutine.
//
// Reads return deep copies of the last committed state and never wait on
// writes. Mutations run one at a time in submission order against a draft
// copy; a draft is persisted before it replaces the committed state, so a
// failed save leaves memory as it was.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mesh-intelligence/planu/internal/snapshot"
	"github.com/mesh-intelligence/planu/pkg/types"
)

// Store errors.
var (
	ErrClosed  = errors.New("store closed")
	ErrPersist = errors.New("persisting snapshot failed")
	ErrPanic   = errors.New("mutation panicked")
)

// Codec loads and saves the durable snapshot. Load reports a missing
// snapshot as snapshot.ErrNotFound; any other Load error is treated as a
// corrupt snapshot. Records Load had to skip are listed in its Report.
type Codec interface {
	Load(ctx context.Context) (*types.State, snapshot.Report, error)
	Save(ctx context.Context, st *types.State) error
}

// MutateFunc changes draft in place. It must call markDirty when the draft
// differs from the committed state; a mutation that never calls it is not
// persisted. Returning an error discards the draft.
type MutateFunc func(draft *types.State, markDirty func()) error

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for store events. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics registers the store collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Store) {
		s.metrics = newMetrics(reg)
	}
}

// Store is a durable in-memory document store. Create one with New or Open.
type Store struct {
	codec   Codec
	seed    *types.State
	logger  *slog.Logger
	metrics *metrics

	// state is the committed state. A published State is never modified.
	state atomic.Pointer[types.State]

	// initErr is written by the worker before ready is closed.
	initErr error
	ready   chan struct{}

	tasks     chan func()
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// New creates a Store and starts its worker. The worker first loads the
// snapshot through codec; when the snapshot is absent or unreadable a copy
// of seed is saved and becomes the committed state. Operations issued
// before initialization finishes wait for it.
func New(codec Codec, seed *types.State, opts ...Option) *Store {
	s := &Store{
		codec:   codec,
		seed:    seed.Clone(),
		logger:  slog.New(slog.DiscardHandler),
		ready:   make(chan struct{}),
		tasks:   make(chan func()),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

// Open is New followed by WaitReady. On failure the store is closed.
func Open(ctx context.Context, codec Codec, seed *types.State, opts ...Option) (*Store, error) {
	s := New(codec, seed, opts...)
	if err := s.WaitReady(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// WaitReady blocks until initialization has finished and returns its error.
func (s *Store) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return s.initErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Mutate runs fn against a deep copy of the committed state. If fn succeeds
// and marked the draft dirty, the draft is saved and then committed. Errors
// from fn are returned unchanged; a panic in fn is returned as ErrPanic and a
// failed save as ErrPersist. ctx bounds only the wait for the worker: once
// accepted, the mutation runs to completion.
func (s *Store) Mutate(ctx context.Context, fn MutateFunc) error {
	reply := make(chan error, 1)
	persistCtx := context.WithoutCancel(ctx)
	if err := s.submit(ctx, func() { reply <- s.apply(persistCtx, fn) }); err != nil {
		return err
	}
	return <-reply
}

// View calls fn with the committed state. fn must not modify the state or
// retain any part of it after returning.
func (s *Store) View(ctx context.Context, fn func(st *types.State) error) error {
	st, err := s.committed(ctx)
	if err != nil {
		return err
	}
	return fn(st)
}

// Read returns a deep copy of the collection pick selects from the committed
// state.
func Read[T types.Cloner[T]](ctx context.Context, s *Store, pick func(st *types.State) []T) ([]T, error) {
	var out []T
	err := s.View(ctx, func(st *types.State) error {
		out = types.CloneAll(pick(st))
		return nil
	})
	return out, err
}

// Snapshot returns a deep copy of the whole committed state.
func (s *Store) Snapshot(ctx context.Context) (*types.State, error) {
	st, err := s.committed(ctx)
	if err != nil {
		return nil, err
	}
	return st.Clone(), nil
}

// Close stops the worker after the running mutation, if any, finishes.
// Mutations still waiting to be accepted return ErrClosed, as does every
// operation issued after Close. Close is idempotent.
func (s *Store) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	<-s.stopped
	return nil
}

func (s *Store) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Store) committed(ctx context.Context) (*types.State, error) {
	if s.closed() {
		return nil, ErrClosed
	}
	if err := s.WaitReady(ctx); err != nil {
		return nil, err
	}
	return s.state.Load(), nil
}

// submit hands t to the worker, blocking until the worker accepts it.
func (s *Store) submit(ctx context.Context, t func()) error {
	if s.closed() {
		return ErrClosed
	}
	s.metrics.enqueued()
	defer s.metrics.dequeued()

	select {
	case s.tasks <- t:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the worker loop. Initialization is its first task.
func (s *Store) run() {
	defer close(s.stopped)

	s.initialize(context.Background())
	close(s.ready)

	for {
		select {
		case <-s.done:
			return
		case t := <-s.tasks:
			t()
		}
	}
}

func (s *Store) initialize(ctx context.Context) {
	st, rep, err := s.codec.Load(ctx)
	switch {
	case err == nil:
		if st == nil {
			st = types.NewState()
		}
		if n := rep.Total(); n > 0 {
			s.logger.Warn("snapshot records skipped, they will be lost on the next save",
				"dropped", n, "collections", rep.Dropped)
		}
		s.state.Store(st)
		s.logger.Info("snapshot loaded",
			"clients", len(st.Clients),
			"vehicles", len(st.Vehicles),
			"parts", len(st.Parts),
			"services", len(st.Services),
			"service_orders", len(st.ServiceOrders))
		return
	case errors.Is(err, snapshot.ErrNotFound):
		s.logger.Info("snapshot absent, writing seed data", "error", err)
	default:
		s.logger.Warn("snapshot unreadable, replacing it with seed data", "error", err)
	}

	seed := s.seed.Clone()
	if err := s.persist(ctx, seed); err != nil {
		s.initErr = fmt.Errorf("%w: writing seed data: %w", ErrPersist, err)
		s.logger.Error("store initialization failed", "error", err)
		return
	}
	s.metrics.reseeded()
	s.state.Store(seed)
}

// apply runs one mutation on the worker goroutine.
func (s *Store) apply(ctx context.Context, fn MutateFunc) error {
	if s.initErr != nil {
		return s.initErr
	}

	start := time.Now()
	logger := s.logger.With("tx", newTxID())

	draft := s.state.Load().Clone()
	dirty := false
	if err := runMutation(fn, draft, func() { dirty = true }); err != nil {
		s.metrics.mutation(outcomeFailed)
		logger.Debug("mutation rejected", "error", err)
		return err
	}
	if !dirty {
		s.metrics.mutation(outcomeNoop)
		logger.Debug("mutation left state unchanged")
		return nil
	}

	if err := s.persist(ctx, draft); err != nil {
		s.metrics.mutation(outcomeFailed)
		logger.Error("mutation not committed", "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	s.state.Store(draft)
	s.metrics.mutation(outcomeCommitted)
	logger.Debug("mutation committed", "duration", time.Since(start))
	return nil
}

func (s *Store) persist(ctx context.Context, st *types.State) error {
	start := time.Now()
	err := s.codec.Save(ctx, st)
	s.metrics.persisted(time.Since(start))
	return err
}

func runMutation(fn MutateFunc, draft *types.State, markDirty func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn(draft, markDirty)
}

// newTxID returns a time-ordered id for log correlation.
func newTxID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
