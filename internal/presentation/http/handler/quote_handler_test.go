package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/onusexpress/courier-api/internal/application/service"
	"github.com/onusexpress/courier-api/internal/domain/entity"
	"github.com/onusexpress/courier-api/pkg/pagination"
)

type nopFailureRepo struct{}

func (nopFailureRepo) Append(ctx context.Context, failure *entity.DispatchFailure) error {
	return nil
}

func (nopFailureRepo) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.DispatchFailure, int64, error) {
	return nil, 0, nil
}

func (nopFailureRepo) CountBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	return 0, nil
}

func newQuoteRouter(dispatchEndpoint string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	dispatcher := service.NewDispatchService(dispatchEndpoint, "token", 5*time.Second, nopFailureRepo{})
	h := NewQuoteHandler(service.NewQuoteService(dispatcher))

	router := gin.New()
	router.GET("/api/v1/tarifas", h.GetCatalog)
	quotes := router.Group("/api/v1/presupuestos")
	quotes.POST("", h.CreateSession)
	quotes.GET("/:id", h.GetSession)
	quotes.PUT("/:id/client-name", h.SetClientName)
	quotes.POST("/:id/lines/service", h.AddServiceLine)
	quotes.POST("/:id/lines/additional", h.AddAdditional)
	quotes.PATCH("/:id/lines/:line_id", h.UpdateLine)
	quotes.DELETE("/:id/lines/:line_id", h.RemoveLine)
	quotes.GET("/:id/pdf", h.ExportPDF)
	quotes.POST("/:id/dispatch", h.Dispatch)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/presupuestos", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create session status = %d, want 201", w.Code)
	}
	var envelope struct {
		Data struct {
			SessionID string `json:"session_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return envelope.Data.SessionID
}

func TestQuoteHandler_Catalog(t *testing.T) {
	router := newQuoteRouter("")

	w := doJSON(t, router, http.MethodGet, "/api/v1/tarifas", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"19h", "08:30h", "HOY", "Reembolsos"} {
		if !strings.Contains(body, want) {
			t.Errorf("catalog response missing %q", want)
		}
	}
}

func TestQuoteHandler_AddServiceLine(t *testing.T) {
	router := newQuoteRouter("")
	id := createSession(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/presupuestos/"+id+"/lines/service",
		`{"service":"19h","weight_kg":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "9.87") {
		t.Errorf("response missing priced line: %s", w.Body.String())
	}

	// Quote-on-request tiers are refused with a conflict
	w = doJSON(t, router, http.MethodPost, "/api/v1/presupuestos/"+id+"/lines/service",
		`{"service":"HOY","weight_kg":2}`)
	if w.Code != http.StatusConflict {
		t.Errorf("HOY status = %d, want 409", w.Code)
	}

	// Unknown sessions are a 404
	w = doJSON(t, router, http.MethodPost, "/api/v1/presupuestos/00000000-0000-0000-0000-000000000001/lines/service",
		`{"service":"19h","weight_kg":2}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown session status = %d, want 404", w.Code)
	}
}

type quoteEnvelope struct {
	Data struct {
		SessionID string `json:"session_id"`
		State     string `json:"dispatch_state"`
		Quote     struct {
			Lines []struct {
				ID          string  `json:"id"`
				Description string  `json:"description"`
				UnitPrice   float64 `json:"unit_price"`
				Quantity    int     `json:"quantity"`
			} `json:"lines"`
			Total float64 `json:"total"`
		} `json:"quote"`
	} `json:"data"`
}

func decodeQuote(t *testing.T, w *httptest.ResponseRecorder) quoteEnvelope {
	t.Helper()
	var envelope quoteEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode quote response: %v", err)
	}
	return envelope
}

func TestQuoteHandler_UpdateLine(t *testing.T) {
	router := newQuoteRouter("")
	id := createSession(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/presupuestos/"+id+"/lines/service",
		`{"service":"19h","weight_kg":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("add line status = %d, want 200", w.Code)
	}
	lineID := decodeQuote(t, w).Data.Quote.Lines[0].ID

	// Non-numeric quantity coerces to 1; the price patch applies
	w = doJSON(t, router, http.MethodPatch, "/api/v1/presupuestos/"+id+"/lines/"+lineID,
		`{"price":"15.50","quantity":"muchos"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update line status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	line := decodeQuote(t, w).Data.Quote.Lines[0]
	if line.UnitPrice != 15.50 {
		t.Errorf("unit_price = %v, want 15.50", line.UnitPrice)
	}
	if line.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", line.Quantity)
	}

	// Unknown line ids are a 404
	w = doJSON(t, router, http.MethodPatch,
		"/api/v1/presupuestos/"+id+"/lines/"+uuid.New().String(), `{"price":"1"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown line status = %d, want 404", w.Code)
	}
}

func TestQuoteHandler_RemoveLine(t *testing.T) {
	router := newQuoteRouter("")
	id := createSession(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/v1/presupuestos/"+id+"/lines/additional",
		`{"concept":"Entrega","price":"10","quantity":"1"}`)
	lineID := decodeQuote(t, w).Data.Quote.Lines[0].ID

	w = doJSON(t, router, http.MethodDelete, "/api/v1/presupuestos/"+id+"/lines/"+lineID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("remove line status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	envelope := decodeQuote(t, w)
	if len(envelope.Data.Quote.Lines) != 0 {
		t.Errorf("lines after removal = %d, want 0", len(envelope.Data.Quote.Lines))
	}
	if envelope.Data.Quote.Total != 0 {
		t.Errorf("total after removal = %v, want 0", envelope.Data.Quote.Total)
	}
}

func TestQuoteHandler_ExportPDF(t *testing.T) {
	router := newQuoteRouter("")
	id := createSession(t, router)

	doJSON(t, router, http.MethodPut, "/api/v1/presupuestos/"+id+"/client-name", `{"name":"Acme SL"}`)
	doJSON(t, router, http.MethodPost, "/api/v1/presupuestos/"+id+"/lines/additional",
		`{"concept":"Entrega urgente","price":"12.50","quantity":"2"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/presupuestos/"+id+"/pdf", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	disposition := w.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "tarifario-mensajeria-express-2026-acme-sl.pdf") {
		t.Errorf("Content-Disposition = %q", disposition)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF-") {
		t.Error("body is not a PDF document")
	}
}

func TestQuoteHandler_DispatchForwardsBearer(t *testing.T) {
	var gotAuth string
	receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer receiver.Close()

	router := newQuoteRouter(receiver.URL)
	id := createSession(t, router)
	doJSON(t, router, http.MethodPost, "/api/v1/presupuestos/"+id+"/lines/additional",
		`{"concept":"Entrega","price":"10","quantity":"1"}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/presupuestos/"+id+"/dispatch",
		strings.NewReader(`{"client_email":"cliente@acme.es"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer operator-jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if gotAuth != "Bearer operator-jwt" {
		t.Errorf("forwarded Authorization = %q, want %q", gotAuth, "Bearer operator-jwt")
	}
}

func TestQuoteHandler_DispatchFailure(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	router := newQuoteRouter(down.URL)
	id := createSession(t, router)
	doJSON(t, router, http.MethodPost, "/api/v1/presupuestos/"+id+"/lines/additional",
		`{"concept":"Entrega","price":"10","quantity":"1"}`)

	w := doJSON(t, router, http.MethodPost, "/api/v1/presupuestos/"+id+"/dispatch",
		`{"client_email":"cliente@acme.es"}`)
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}

	// The session survives the failure in the queued state
	w = doJSON(t, router, http.MethodGet, "/api/v1/presupuestos/"+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get session status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "queued_after_failure") {
		t.Errorf("session state not queued: %s", w.Body.String())
	}
}
