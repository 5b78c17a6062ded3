package registry

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/team6/oms-dashboard/internal/actionlog"
	"github.com/team6/oms-dashboard/internal/domain"
	"github.com/team6/oms-dashboard/internal/draft"
)

var (
	// ErrNotCancellable gates a cancel that the local status forbids; no
	// request is issued.
	ErrNotCancellable = errors.New("order can no longer be cancelled")

	// ErrStaleResponse marks an operation whose response arrived after the
	// session was invalidated. The response was discarded; local state was
	// not touched.
	ErrStaleResponse = errors.New("stale response discarded")
)

// ValidationError wraps a draft validation failure. It is raised before any
// network call is made.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// Session owns the client-visible order state: the in-progress draft and
// the last confirmed order list. Local state is only ever mutated after a
// confirmed backend response; a failed submit or cancel leaves everything
// exactly as it was.
type Session struct {
	client *Client
	audit  actionlog.Repository // nil-safe: auditing skipped if nil

	mu     sync.Mutex
	draft  *draft.Builder
	orders []domain.Order
	gen    uint64
}

// NewSession returns a session with a fresh draft and an empty order list.
// audit may be nil.
func NewSession(client *Client, audit actionlog.Repository) *Session {
	return &Session{
		client: client,
		audit:  audit,
		draft:  draft.New(),
	}
}

// Draft exposes the in-progress order draft. The draft itself is not
// locked; drive it from one goroutine.
func (s *Session) Draft() *draft.Builder { return s.draft }

// Orders returns a copy of the confirmed order list, most recent first.
func (s *Session) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Order looks up a confirmed order by ID.
func (s *Session) Order(orderID string) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.OrderID == orderID {
			return o, true
		}
	}
	return domain.Order{}, false
}

// Invalidate bumps the session generation. Responses of operations that
// started earlier are discarded instead of applied, so a torn-down view can
// never be mutated by a late reply. Call it on teardown.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
}

// Refresh replaces the local order list with the backend's. On failure the
// previously held list stays untouched.
func (s *Session) Refresh(ctx context.Context) error {
	gen := s.generation()

	orders, err := s.client.List(ctx)
	if err != nil {
		s.record(ctx, actionlog.NewEntry(ctx, "", actionlog.OpRefresh, actionlog.OutcomeError, err.Error(), ""))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return ErrStaleResponse
	}
	s.orders = orders
	s.record(ctx, actionlog.NewEntry(ctx, "", actionlog.OpRefresh, actionlog.OutcomeOK, "", ""))
	return nil
}

// Submit validates the draft, sends it, and on confirmation prepends the
// created order and resets the draft. A draft that fails validation raises
// a *ValidationError without any network call; a backend failure leaves
// both the draft and the list intact so the user can retry as-is.
func (s *Session) Submit(ctx context.Context) (domain.Order, error) {
	snap, err := s.draft.Snapshot()
	if err != nil {
		verr := &ValidationError{Err: err}
		s.record(ctx, actionlog.NewEntry(ctx, "", actionlog.OpSubmit, actionlog.OutcomeRejected, verr.Error(), ""))
		return domain.Order{}, verr
	}

	payload, _ := json.Marshal(mapSnapshotToRequest(snap))
	gen := s.generation()

	created, err := s.client.Submit(ctx, snap)
	if err != nil {
		s.record(ctx, actionlog.NewEntry(ctx, "", actionlog.OpSubmit, actionlog.OutcomeError, err.Error(), string(payload)))
		return domain.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// The backend did create the order; only this view is gone.
		slog.WarnContext(ctx, "discarding submit response for invalidated session", "order_id", created.OrderID)
		return domain.Order{}, ErrStaleResponse
	}
	s.orders = append([]domain.Order{created}, s.orders...)
	s.draft.Reset()
	s.record(ctx, actionlog.NewEntry(ctx, created.OrderID, actionlog.OpSubmit, actionlog.OutcomeOK, "", string(payload)))
	return created, nil
}

// Cancel requests cancellation of an order. A local copy in a
// non-cancellable status gates the action without a network call; the
// backend remains the final authority for everything else, including
// statuses that advanced since the last refresh. On confirmation the
// returned order replaces the local entry by ID.
func (s *Session) Cancel(ctx context.Context, orderID string) (domain.Order, error) {
	if local, ok := s.Order(orderID); ok && !local.Status.Cancellable() {
		err := &ValidationError{Err: ErrNotCancellable}
		s.record(ctx, actionlog.NewEntry(ctx, orderID, actionlog.OpCancel, actionlog.OutcomeRejected, err.Error(), ""))
		return domain.Order{}, err
	}

	gen := s.generation()

	updated, err := s.client.Cancel(ctx, orderID)
	if err != nil {
		s.record(ctx, actionlog.NewEntry(ctx, orderID, actionlog.OpCancel, actionlog.OutcomeError, err.Error(), ""))
		return domain.Order{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return domain.Order{}, ErrStaleResponse
	}
	for i, o := range s.orders {
		if o.OrderID == updated.OrderID {
			s.orders[i] = updated
			break
		}
	}
	s.record(ctx, actionlog.NewEntry(ctx, updated.OrderID, actionlog.OpCancel, actionlog.OutcomeOK, "", ""))
	return updated, nil
}

func (s *Session) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// record appends an audit entry if a repository is configured. Audit
// failures are logged, never propagated: the log must not break the flow
// it observes.
func (s *Session) record(ctx context.Context, entry *actionlog.Entry) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to write action log", "operation", entry.Operation, "error", err)
	}
}
