package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/onusexpress/courier-api/pkg/apperror"
)

func newTestQuoteService(endpoint string, repo *fakeFailureRepo) *QuoteService {
	if repo == nil {
		repo = &fakeFailureRepo{}
	}
	dispatcher := NewDispatchService(endpoint, "token", 5*time.Second, repo)
	return NewQuoteService(dispatcher)
}

func TestQuoteService_SessionLifecycle(t *testing.T) {
	svc := newTestQuoteService("", nil)

	view := svc.CreateSession()
	if view.State != DispatchIdle {
		t.Errorf("new session state = %q, want %q", view.State, DispatchIdle)
	}
	if len(view.Snapshot.Lines) != 0 {
		t.Errorf("new session has %d lines, want 0", len(view.Snapshot.Lines))
	}

	got, err := svc.View(view.SessionID)
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
	if got.SessionID != view.SessionID {
		t.Errorf("View() session = %v, want %v", got.SessionID, view.SessionID)
	}

	svc.DropSession(view.SessionID)
	if _, err := svc.View(view.SessionID); err == nil {
		t.Error("View() after drop error = nil, want not found")
	}
}

func TestQuoteService_UnknownSession(t *testing.T) {
	svc := newTestQuoteService("", nil)

	_, err := svc.AddService(uuid.New(), "19h", 2)
	if err == nil {
		t.Fatal("AddService() on unknown session error = nil, want error")
	}
	if appErr := apperror.GetAppError(err); appErr.Code != http.StatusNotFound {
		t.Errorf("code = %d, want %d", appErr.Code, http.StatusNotFound)
	}
}

func TestQuoteService_AddService(t *testing.T) {
	svc := newTestQuoteService("", nil)
	sess := svc.CreateSession()

	tests := []struct {
		name     string
		service  string
		weight   float64
		wantCode int
	}{
		{"priced tier", "19h", 2, 0},
		{"quote on request tier", "HOY", 2, http.StatusConflict},
		{"unknown tier", "48h", 2, http.StatusNotFound},
		{"zero weight", "19h", 0, http.StatusBadRequest},
		{"negative weight", "19h", -3, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddService(sess.SessionID, tt.service, tt.weight)
			if tt.wantCode == 0 {
				if err != nil {
					t.Fatalf("AddService() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("AddService() error = nil, want error")
			}
			if appErr := apperror.GetAppError(err); appErr.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", appErr.Code, tt.wantCode)
			}
		})
	}

	// Only the priced tier produced a line
	view, err := svc.View(sess.SessionID)
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
	if len(view.Snapshot.Lines) != 1 {
		t.Errorf("ledger has %d lines, want 1", len(view.Snapshot.Lines))
	}
}

func TestQuoteService_Dispatch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	repo := &fakeFailureRepo{}
	svc := newTestQuoteService(server.URL, repo)
	sess := svc.CreateSession()
	svc.SetClientName(sess.SessionID, "Acme SL")
	if _, err := svc.AddService(sess.SessionID, "19h", 2); err != nil {
		t.Fatalf("AddService() error = %v", err)
	}

	view, err := svc.Dispatch(context.Background(), sess.SessionID, "cliente@acme.es", "")
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if view.State != DispatchSent {
		t.Errorf("state = %q, want %q", view.State, DispatchSent)
	}
	if len(repo.entries) != 0 {
		t.Errorf("failure log has %d entries, want 0", len(repo.entries))
	}

	// The ledger is untouched by a dispatch
	if len(view.Snapshot.Lines) != 1 {
		t.Errorf("ledger has %d lines after dispatch, want 1", len(view.Snapshot.Lines))
	}
}

func TestQuoteService_Dispatch_FailureQueues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	repo := &fakeFailureRepo{}
	svc := newTestQuoteService(server.URL, repo)
	sess := svc.CreateSession()
	svc.AddAdditional(sess.SessionID, "Entrega urgente", "12.50", "1")

	view, err := svc.Dispatch(context.Background(), sess.SessionID, "cliente@acme.es", "")
	if err == nil {
		t.Fatal("Dispatch() error = nil, want error")
	}
	if view.State != DispatchQueued {
		t.Errorf("state = %q, want %q", view.State, DispatchQueued)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("failure log has %d entries, want exactly 1", len(repo.entries))
	}

	// A later dispatch can still be attempted
	retryServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer retryServer.Close()
	svc.dispatcher = NewDispatchService(retryServer.URL, "token", 5*time.Second, repo)

	view, err = svc.Dispatch(context.Background(), sess.SessionID, "cliente@acme.es", "")
	if err != nil {
		t.Fatalf("retry Dispatch() error = %v", err)
	}
	if view.State != DispatchSent {
		t.Errorf("state after retry = %q, want %q", view.State, DispatchSent)
	}
	if len(repo.entries) != 1 {
		t.Errorf("failure log grew to %d entries on retry success, want 1", len(repo.entries))
	}
}

func TestQuoteService_ResetClearsState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	svc := newTestQuoteService(server.URL, nil)
	sess := svc.CreateSession()
	svc.AddAdditional(sess.SessionID, "Entrega", "10", "2")
	svc.SetAdjustment(sess.SessionID, "Descuento", "-3")
	if _, err := svc.Dispatch(context.Background(), sess.SessionID, "cliente@acme.es", ""); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	view, err := svc.Reset(sess.SessionID)
	if err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if view.State != DispatchIdle {
		t.Errorf("state after reset = %q, want %q", view.State, DispatchIdle)
	}
	if len(view.Snapshot.Lines) != 0 || view.Snapshot.Total != 0 {
		t.Errorf("snapshot after reset = %+v, want empty", view.Snapshot)
	}
	if !view.Snapshot.Adjustment.IsZero() {
		t.Errorf("adjustment after reset = %+v, want cleared", view.Snapshot.Adjustment)
	}
}

func TestQuoteService_EvictStale(t *testing.T) {
	svc := newTestQuoteService("", nil)

	base := time.Now()
	svc.now = func() time.Time { return base }
	stale := svc.CreateSession()

	svc.now = func() time.Time { return base.Add(sessionTTL / 2) }
	fresh := svc.CreateSession()

	svc.now = func() time.Time { return base.Add(sessionTTL + time.Minute) }
	if evicted := svc.EvictStale(); evicted != 1 {
		t.Errorf("EvictStale() = %d, want 1", evicted)
	}
	if _, err := svc.View(stale.SessionID); err == nil {
		t.Error("stale session still reachable after eviction")
	}
	if _, err := svc.View(fresh.SessionID); err != nil {
		t.Errorf("fresh session evicted: %v", err)
	}
}

func TestQuoteService_ExportPDF(t *testing.T) {
	svc := newTestQuoteService("", nil)
	sess := svc.CreateSession()
	svc.SetClientName(sess.SessionID, "Talleres García")
	svc.AddAdditional(sess.SessionID, "Entrega", "10", "1")

	pdf, err := svc.ExportPDF(sess.SessionID)
	if err != nil {
		t.Fatalf("ExportPDF() error = %v", err)
	}
	if pdf.Filename != "tarifario-mensajeria-express-2026-talleres-garc-a.pdf" {
		t.Errorf("filename = %q", pdf.Filename)
	}
	if len(pdf.Content) == 0 || string(pdf.Content[:5]) != "%PDF-" {
		t.Error("ExportPDF() content is not a PDF document")
	}
}

func TestQuoteService_Catalog(t *testing.T) {
	svc := newTestQuoteService("", nil)
	catalog := svc.Catalog()

	if len(catalog.WeightSurcharges) == 0 || len(catalog.DimensionRanges) == 0 {
		t.Error("catalog surcharge tables are empty")
	}
	if len(catalog.AdditionalServices) == 0 {
		t.Error("catalog additional services are empty")
	}
}
