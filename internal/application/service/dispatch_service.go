package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/onusexpress/courier-api/internal/domain/entity"
	"github.com/onusexpress/courier-api/internal/domain/repository"
	"github.com/onusexpress/courier-api/internal/pricing"
)

// maxDispatchItems caps the item list of an outbound payload
const maxDispatchItems = 100

// DispatchItem is one line of the outbound payload
type DispatchItem struct {
	Nombre   string  `json:"nombre"`
	Cantidad int     `json:"cantidad"`
	Precio   float64 `json:"precio"`
}

// DispatchPayload is the wire format of a quote notification
type DispatchPayload struct {
	ClienteNombre string         `json:"cliente_nombre"`
	ClienteEmail  string         `json:"cliente_email"`
	Tarifario     string         `json:"tarifario"`
	Total         float64        `json:"total"`
	Items         []DispatchItem `json:"items"`
}

// DispatchService performs the fire-and-forget notification call. A failed
// send appends exactly one entry to the failure log carrying the payload
// verbatim; nothing drains the log automatically.
type DispatchService struct {
	endpoint    string
	token       string
	httpClient  *http.Client
	failureRepo repository.DispatchFailureRepository
	now         func() time.Time
}

// NewDispatchService creates a new dispatch service
func NewDispatchService(endpoint, token string, timeout time.Duration, failureRepo repository.DispatchFailureRepository) *DispatchService {
	return &DispatchService{
		endpoint:    endpoint,
		token:       token,
		httpClient:  &http.Client{Timeout: timeout},
		failureRepo: failureRepo,
		now:         time.Now,
	}
}

// BuildPayload converts a ledger snapshot into the wire format. Lines
// beyond the item cap are dropped; the total still reflects the full
// ledger.
func BuildPayload(snap pricing.Snapshot, clientEmail string) DispatchPayload {
	items := make([]DispatchItem, 0, len(snap.Lines)+1)
	for _, l := range snap.Lines {
		if len(items) == maxDispatchItems {
			break
		}
		items = append(items, DispatchItem{
			Nombre:   l.Description,
			Cantidad: l.Quantity,
			Precio:   l.UnitPrice,
		})
	}
	if !snap.Adjustment.IsZero() && len(items) < maxDispatchItems {
		items = append(items, DispatchItem{
			Nombre:   snap.Adjustment.Label,
			Cantidad: 1,
			Precio:   snap.Adjustment.Amount,
		})
	}

	return DispatchPayload{
		ClienteNombre: snap.ClientName,
		ClienteEmail:  clientEmail,
		Tarifario:     "Mensajería Express 2026",
		Total:         snap.Total,
		Items:         items,
	}
}

type dispatchAck struct {
	OK bool `json:"ok"`
}

// Send posts the quote summary to the configured endpoint, authenticating
// with the operator's session token when one is supplied and the configured
// service token otherwise. Success requires HTTP 200 and {"ok": true} in
// the response body; anything else, including an expired or missing
// operator session rejected by the endpoint, records a failure entry and
// returns an error.
func (s *DispatchService) Send(ctx context.Context, sessionID uuid.UUID, snap pricing.Snapshot, clientEmail, operatorToken string) error {
	payload := BuildPayload(snap, clientEmail)
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal dispatch payload: %w", err)
	}

	statusCode, sendErr := s.post(ctx, body, operatorToken)
	if sendErr == nil {
		return nil
	}

	failure := &entity.DispatchFailure{
		SessionID: sessionID,
		Endpoint:  s.endpoint,
		Payload:   string(body),
		Reason:    sendErr.Error(),
		FailedAt:  s.now(),
	}
	if statusCode != 0 {
		failure.StatusCode = &statusCode
	}
	if err := s.failureRepo.Append(ctx, failure); err != nil {
		// The failure log itself failed; the original error still matters
		// more to the caller.
		log.Printf("Warning: failed to record dispatch failure: %v", err)
	}

	return sendErr
}

// post performs the HTTP call and returns the status code seen, if any
func (s *DispatchService) post(ctx context.Context, body []byte, operatorToken string) (int, error) {
	if s.endpoint == "" {
		return 0, fmt.Errorf("dispatch endpoint not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build dispatch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	token := operatorToken
	if token == "" {
		token = s.token
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("dispatch request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read dispatch response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("dispatch endpoint returned status %d", resp.StatusCode)
	}

	var ack dispatchAck
	if err := json.Unmarshal(respBody, &ack); err != nil {
		return resp.StatusCode, fmt.Errorf("decode dispatch ack: %w", err)
	}
	if !ack.OK {
		return resp.StatusCode, fmt.Errorf("dispatch endpoint did not acknowledge")
	}

	return resp.StatusCode, nil
}
