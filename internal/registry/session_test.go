package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/team6/oms-dashboard/internal/actionlog"
	"github.com/team6/oms-dashboard/internal/domain"
	"github.com/team6/oms-dashboard/internal/draft"
)

type auditSpy struct {
	entries []*actionlog.Entry
}

func (a *auditSpy) Save(_ context.Context, entry *actionlog.Entry) error {
	a.entries = append(a.entries, entry)
	return nil
}

func (a *auditSpy) last(t *testing.T) *actionlog.Entry {
	t.Helper()
	require.NotEmpty(t, a.entries)
	return a.entries[len(a.entries)-1]
}

func fillDraft(t *testing.T, b *draft.Builder) {
	t.Helper()
	b.SetCustomerID("CUST-1")
	b.SetPrename("Ana")
	b.SetName("Rossi")
	b.SetStreet("Main 1")
	b.SetCity("Berlin")
	b.SetZipCode("10115")
	b.SetCountry("Germany")
	require.NoError(t, b.UpdateItem(0, draft.ItemInput{ProductID: "SKU-1", Quantity: "2", Price: "9.99"}))
}

func TestSessionRefreshReplacesList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[" + sampleOrderJSON("ORD-1", "PAID") + "]"))
	}))
	defer srv.Close()

	audit := &auditSpy{}
	session := NewSession(NewClient(srv.URL, nil), audit)

	require.NoError(t, session.Refresh(context.Background()))

	orders := session.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-1", orders[0].OrderID)
	assert.Equal(t, domain.StatusPaid, orders[0].Status)

	entry := audit.last(t)
	assert.Equal(t, actionlog.OpRefresh, entry.Operation)
	assert.Equal(t, actionlog.OutcomeOK, entry.Outcome)
}

func TestSessionRefreshFailureKeepsList(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("DB down"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[" + sampleOrderJSON("ORD-1", "CREATED") + "]"))
	}))
	defer srv.Close()

	audit := &auditSpy{}
	session := NewSession(NewClient(srv.URL, nil), audit)
	require.NoError(t, session.Refresh(context.Background()))

	fail.Store(true)
	err := session.Refresh(context.Background())

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "DB down", rerr.Message)
	require.Len(t, session.Orders(), 1)
	assert.Equal(t, actionlog.OutcomeError, audit.last(t).Outcome)
}

func TestSessionSubmitPrependsAndResetsDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte("[" + sampleOrderJSON("ORD-1", "PAID") + "]"))
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(sampleOrderJSON("ORD-2", "CREATED")))
		}
	}))
	defer srv.Close()

	audit := &auditSpy{}
	session := NewSession(NewClient(srv.URL, nil), audit)
	require.NoError(t, session.Refresh(context.Background()))
	fillDraft(t, session.Draft())

	created, err := session.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ORD-2", created.OrderID)

	orders := session.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-2", orders[0].OrderID, "created order goes to the top")
	assert.Equal(t, "ORD-1", orders[1].OrderID)

	// draft is back to its blank state
	assert.Equal(t, "CUST-", session.Draft().Customer().CustomerID)
	assert.False(t, session.Draft().Submittable())

	entry := audit.last(t)
	assert.Equal(t, actionlog.OpSubmit, entry.Operation)
	assert.Equal(t, actionlog.OutcomeOK, entry.Outcome)
	assert.Equal(t, "ORD-2", entry.OrderID)
	assert.Contains(t, entry.Payload, `"customerId":"CUST-1"`)
}

func TestSessionSubmitInvalidDraftSkipsNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	audit := &auditSpy{}
	session := NewSession(NewClient(srv.URL, nil), audit)

	_, err := session.Submit(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, domain.ErrBlankField("prename"))
	assert.Zero(t, hits.Load(), "no request for an unsubmittable draft")
	assert.Equal(t, actionlog.OutcomeRejected, audit.last(t).Outcome)
}

func TestSessionSubmitFailureKeepsDraftAndList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("totalAmount mismatch: provided=10.00, calculated=19.98"))
	}))
	defer srv.Close()

	session := NewSession(NewClient(srv.URL, nil), nil)
	fillDraft(t, session.Draft())

	_, err := session.Submit(context.Background())

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Message, "totalAmount mismatch")
	assert.Empty(t, session.Orders())
	assert.Equal(t, "CUST-1", session.Draft().Customer().CustomerID, "draft untouched for retry")
	assert.True(t, session.Draft().Submittable())
}

func TestSessionCancelReplacesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			assert.Equal(t, "/orders/ORD-1/cancel", r.URL.Path)
			_, _ = w.Write([]byte(sampleOrderJSON("ORD-1", "CANCELLED")))
			return
		}
		_, _ = w.Write([]byte("[" + sampleOrderJSON("ORD-1", "PAID") + "," + sampleOrderJSON("ORD-2", "CREATED") + "]"))
	}))
	defer srv.Close()

	audit := &auditSpy{}
	session := NewSession(NewClient(srv.URL, nil), audit)
	require.NoError(t, session.Refresh(context.Background()))

	updated, err := session.Cancel(context.Background(), "ORD-1")

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)

	orders := session.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, domain.StatusCancelled, orders[0].Status)
	assert.Equal(t, domain.StatusCreated, orders[1].Status, "other orders untouched")
	assert.Equal(t, actionlog.OutcomeOK, audit.last(t).Outcome)
}

func TestSessionCancelGatedLocally(t *testing.T) {
	var cancels atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			cancels.Add(1)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[" + sampleOrderJSON("ORD-1", "DELIVERED") + "]"))
	}))
	defer srv.Close()

	audit := &auditSpy{}
	session := NewSession(NewClient(srv.URL, nil), audit)
	require.NoError(t, session.Refresh(context.Background()))

	_, err := session.Cancel(context.Background(), "ORD-1")

	require.ErrorIs(t, err, ErrNotCancellable)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Zero(t, cancels.Load(), "no request for a locally gated cancel")
	assert.Equal(t, actionlog.OutcomeRejected, audit.last(t).Outcome)
}

func TestSessionCancelUnknownOrderGoesToBackend(t *testing.T) {
	// An order not in the local list is not gated; the backend decides.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("order not found: ORD-404"))
	}))
	defer srv.Close()

	session := NewSession(NewClient(srv.URL, nil), nil)

	_, err := session.Cancel(context.Background(), "ORD-404")

	var rerr *Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusNotFound, rerr.StatusCode)
	assert.Equal(t, "order not found: ORD-404", rerr.Message)
}

func TestSessionDiscardsStaleRefresh(t *testing.T) {
	var session *Session
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Invalidate mid-flight: the response lands after the view is gone.
		session.Invalidate()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[" + sampleOrderJSON("ORD-1", "CREATED") + "]"))
	}))
	defer srv.Close()

	session = NewSession(NewClient(srv.URL, nil), nil)

	err := session.Refresh(context.Background())

	require.ErrorIs(t, err, ErrStaleResponse)
	assert.Empty(t, session.Orders(), "stale response must not be applied")
}

func TestSessionDiscardsStaleSubmit(t *testing.T) {
	var session *Session
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session.Invalidate()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(sampleOrderJSON("ORD-9", "CREATED")))
	}))
	defer srv.Close()

	session = NewSession(NewClient(srv.URL, nil), nil)
	fillDraft(t, session.Draft())

	_, err := session.Submit(context.Background())

	require.ErrorIs(t, err, ErrStaleResponse)
	assert.Empty(t, session.Orders())
	assert.Equal(t, "CUST-1", session.Draft().Customer().CustomerID, "draft not reset on a discarded response")
}
