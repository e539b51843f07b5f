package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/onusexpress/courier-api/internal/domain/entity"
	"github.com/onusexpress/courier-api/internal/pricing"
	"github.com/onusexpress/courier-api/pkg/pagination"
)

type fakeFailureRepo struct {
	entries []entity.DispatchFailure
}

func (r *fakeFailureRepo) Append(ctx context.Context, failure *entity.DispatchFailure) error {
	r.entries = append(r.entries, *failure)
	return nil
}

func (r *fakeFailureRepo) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.DispatchFailure, int64, error) {
	return r.entries, int64(len(r.entries)), nil
}

func (r *fakeFailureRepo) CountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	var n int64
	for _, e := range r.entries {
		if e.SessionID == sessionID {
			n++
		}
	}
	return n, nil
}

func testSnapshot(t *testing.T) pricing.Snapshot {
	t.Helper()
	ledger := pricing.NewLedger(pricing.ExpressSheet(), pricing.WeightSurcharges(), pricing.DimensionSurcharges())
	ledger.SetClientName("Acme SL")
	if _, err := ledger.AddService("19h", 2); err != nil {
		t.Fatalf("AddService() error = %v", err)
	}
	return ledger.Snapshot()
}

func TestDispatchService_Send_Success(t *testing.T) {
	var gotAuth string
	var gotPayload DispatchPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	repo := &fakeFailureRepo{}
	svc := NewDispatchService(server.URL, "secret-token", 5*time.Second, repo)

	err := svc.Send(context.Background(), uuid.New(), testSnapshot(t), "cliente@acme.es", "")
	if err != nil {
		t.Fatalf("Send() error = %v, want nil", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer secret-token")
	}
	if gotPayload.ClienteNombre != "Acme SL" {
		t.Errorf("cliente_nombre = %q, want %q", gotPayload.ClienteNombre, "Acme SL")
	}
	if gotPayload.ClienteEmail != "cliente@acme.es" {
		t.Errorf("cliente_email = %q, want %q", gotPayload.ClienteEmail, "cliente@acme.es")
	}
	if gotPayload.Total != 9.87 {
		t.Errorf("total = %v, want 9.87", gotPayload.Total)
	}
	if len(repo.entries) != 0 {
		t.Errorf("failure log has %d entries after success, want 0", len(repo.entries))
	}
}

func TestDispatchService_Send_ForwardsOperatorToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	repo := &fakeFailureRepo{}
	svc := NewDispatchService(server.URL, "service-token", 5*time.Second, repo)

	// The requesting operator's session token wins over the service token
	if err := svc.Send(context.Background(), uuid.New(), testSnapshot(t), "cliente@acme.es", "operator-jwt"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotAuth != "Bearer operator-jwt" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer operator-jwt")
	}

	// Without an operator session the configured token is the fallback
	if err := svc.Send(context.Background(), uuid.New(), testSnapshot(t), "cliente@acme.es", ""); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if gotAuth != "Bearer service-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer service-token")
	}
}

func TestDispatchService_Send_RecordsOneFailure(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus *int
	}{
		{
			name: "non-200 status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantStatus: intPtr(http.StatusInternalServerError),
		},
		{
			name: "200 without acknowledgment",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"ok":false}`))
			},
			wantStatus: intPtr(http.StatusOK),
		},
		{
			name: "200 with malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
			wantStatus: intPtr(http.StatusOK),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			repo := &fakeFailureRepo{}
			svc := NewDispatchService(server.URL, "secret-token", 5*time.Second, repo)
			sessionID := uuid.New()

			err := svc.Send(context.Background(), sessionID, testSnapshot(t), "cliente@acme.es", "")
			if err == nil {
				t.Fatal("Send() error = nil, want error")
			}
			if len(repo.entries) != 1 {
				t.Fatalf("failure log has %d entries, want exactly 1", len(repo.entries))
			}

			entry := repo.entries[0]
			if entry.SessionID != sessionID {
				t.Errorf("SessionID = %v, want %v", entry.SessionID, sessionID)
			}
			if entry.Endpoint != server.URL {
				t.Errorf("Endpoint = %q, want %q", entry.Endpoint, server.URL)
			}
			if entry.FailedAt.IsZero() {
				t.Error("FailedAt is zero, want a timestamp")
			}
			if tt.wantStatus != nil {
				if entry.StatusCode == nil || *entry.StatusCode != *tt.wantStatus {
					t.Errorf("StatusCode = %v, want %d", entry.StatusCode, *tt.wantStatus)
				}
			}

			// The recorded payload must be the exact bytes that went out
			var recorded DispatchPayload
			if err := json.Unmarshal([]byte(entry.Payload), &recorded); err != nil {
				t.Fatalf("recorded payload is not valid JSON: %v", err)
			}
			if recorded.ClienteNombre != "Acme SL" || recorded.ClienteEmail != "cliente@acme.es" {
				t.Errorf("recorded payload = %+v, want original client fields", recorded)
			}
		})
	}
}

func TestDispatchService_Send_UnreachableEndpoint(t *testing.T) {
	repo := &fakeFailureRepo{}
	svc := NewDispatchService("http://127.0.0.1:1/notify", "", 500*time.Millisecond, repo)

	err := svc.Send(context.Background(), uuid.New(), testSnapshot(t), "cliente@acme.es", "")
	if err == nil {
		t.Fatal("Send() error = nil, want error")
	}
	if len(repo.entries) != 1 {
		t.Fatalf("failure log has %d entries, want 1", len(repo.entries))
	}
	if repo.entries[0].StatusCode != nil {
		t.Errorf("StatusCode = %v, want nil for a connection failure", *repo.entries[0].StatusCode)
	}
}

func TestBuildPayload_CapsItems(t *testing.T) {
	ledger := pricing.NewLedger(pricing.ExpressSheet(), pricing.WeightSurcharges(), pricing.DimensionSurcharges())
	for i := 0; i < 120; i++ {
		ledger.AddAdditional("Bulto extra", "1.00", "1")
	}
	ledger.SetAdjustment("Descuento", "-5")

	payload := BuildPayload(ledger.Snapshot(), "cliente@acme.es")
	if len(payload.Items) != maxDispatchItems {
		t.Errorf("items = %d, want cap of %d", len(payload.Items), maxDispatchItems)
	}
	// The total still reflects every ledger line plus the adjustment
	if payload.Total != 115 {
		t.Errorf("total = %v, want 115", payload.Total)
	}
}

func TestBuildPayload_IncludesAdjustment(t *testing.T) {
	ledger := pricing.NewLedger(pricing.ExpressSheet(), pricing.WeightSurcharges(), pricing.DimensionSurcharges())
	ledger.AddAdditional("Entrega", "10", "1")
	ledger.SetAdjustment("Descuento fidelidad", "-2.50")

	payload := BuildPayload(ledger.Snapshot(), "cliente@acme.es")
	if payload.Tarifario != "Mensajería Express 2026" {
		t.Errorf("tarifario = %q", payload.Tarifario)
	}
	last := payload.Items[len(payload.Items)-1]
	if last.Nombre != "Descuento fidelidad" || last.Precio != -2.50 {
		t.Errorf("adjustment item = %+v, want Descuento fidelidad at -2.50", last)
	}
}

func intPtr(v int) *int { return &v }
