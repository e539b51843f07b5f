package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/onusexpress/courier-api/internal/export"
	"github.com/onusexpress/courier-api/internal/pricing"
	"github.com/onusexpress/courier-api/pkg/apperror"
)

// DispatchState tracks where a session's quote notification stands
type DispatchState string

const (
	DispatchIdle    DispatchState = "idle"
	DispatchSending DispatchState = "sending"
	DispatchSent    DispatchState = "sent"
	// DispatchQueued means the last dispatch failed and was recorded in
	// the failure log. The ledger stays editable and dispatch can be
	// attempted again.
	DispatchQueued DispatchState = "queued_after_failure"
)

// sessionTTL bounds how long an untouched quote session is kept
const sessionTTL = 24 * time.Hour

type quoteSession struct {
	mu         sync.Mutex
	ledger     *pricing.Ledger
	state      DispatchState
	lastAccess time.Time
}

// QuoteService owns the in-memory quote sessions. Ledgers are never
// persisted; a session holds exactly one ledger and its dispatch state.
type QuoteService struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*quoteSession

	sheet      *pricing.RateSheet
	weightSur  *pricing.SurchargeTable
	dimSur     *pricing.SurchargeTable
	additional []pricing.AdditionalService

	dispatcher *DispatchService
	now        func() time.Time
}

// NewQuoteService creates a new quote session service
func NewQuoteService(dispatcher *DispatchService) *QuoteService {
	return &QuoteService{
		sessions:   make(map[uuid.UUID]*quoteSession),
		sheet:      pricing.ExpressSheet(),
		weightSur:  pricing.WeightSurcharges(),
		dimSur:     pricing.DimensionSurcharges(),
		additional: pricing.AdditionalServices(),
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Catalog bundles the rate sheet and surcharge tables for display
type Catalog struct {
	SheetName          string                      `json:"sheet_name"`
	Services           []pricing.ServiceRate       `json:"services"`
	WeightSurcharges   []pricing.Surcharge         `json:"weight_surcharges"`
	DimensionRanges    []pricing.Surcharge         `json:"dimension_surcharges"`
	AdditionalServices []pricing.AdditionalService `json:"additional_services"`
}

// Catalog returns the published rate tables
func (s *QuoteService) Catalog() Catalog {
	return Catalog{
		SheetName:          s.sheet.Name(),
		Services:           s.sheet.Services(),
		WeightSurcharges:   s.weightSur.Entries(),
		DimensionRanges:    s.dimSur.Entries(),
		AdditionalServices: s.additional,
	}
}

// QuoteView is the session state returned after every mutation
type QuoteView struct {
	SessionID uuid.UUID        `json:"session_id"`
	State     DispatchState    `json:"dispatch_state"`
	Snapshot  pricing.Snapshot `json:"quote"`
}

// CreateSession opens a new empty quote session
func (s *QuoteService) CreateSession() QuoteView {
	sess := &quoteSession{
		ledger:     pricing.NewLedger(s.sheet, s.weightSur, s.dimSur),
		state:      DispatchIdle,
		lastAccess: s.now(),
	}
	id := uuid.New()

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	return QuoteView{SessionID: id, State: DispatchIdle, Snapshot: sess.ledger.Snapshot()}
}

// DropSession discards a session and its ledger
func (s *QuoteService) DropSession(id uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// EvictStale drops sessions untouched for longer than the session TTL.
// It returns the number of sessions removed.
func (s *QuoteService) EvictStale() int {
	cutoff := s.now().Add(-sessionTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		stale := sess.lastAccess.Before(cutoff) && sess.state != DispatchSending
		sess.mu.Unlock()
		if stale {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// StartJanitor evicts stale sessions periodically until ctx is done
func (s *QuoteService) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.EvictStale()
			}
		}
	}()
}

func (s *QuoteService) session(id uuid.UUID) (*quoteSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, apperror.NewNotFoundError("Quote session")
	}
	return sess, nil
}

// withSession runs fn while holding the session lock
func (s *QuoteService) withSession(id uuid.UUID, fn func(*quoteSession) error) (QuoteView, error) {
	sess, err := s.session(id)
	if err != nil {
		return QuoteView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.lastAccess = s.now()
	if err := fn(sess); err != nil {
		return QuoteView{}, err
	}
	return QuoteView{SessionID: id, State: sess.state, Snapshot: sess.ledger.Snapshot()}, nil
}

// View returns the current state of a session
func (s *QuoteService) View(id uuid.UUID) (QuoteView, error) {
	return s.withSession(id, func(*quoteSession) error { return nil })
}

// SetClientName records the display name used on exports and dispatches
func (s *QuoteService) SetClientName(id uuid.UUID, name string) (QuoteView, error) {
	return s.withSession(id, func(sess *quoteSession) error {
		sess.ledger.SetClientName(name)
		return nil
	})
}

// AddService prices a delivery tier and appends the line. Quote-on-request
// tiers map to a conflict so callers can show the consult notice.
func (s *QuoteService) AddService(id uuid.UUID, serviceName string, weightKg float64) (QuoteView, error) {
	return s.withSession(id, func(sess *quoteSession) error {
		if weightKg <= 0 {
			return apperror.NewBadRequestError("Weight must be positive")
		}
		_, err := sess.ledger.AddService(serviceName, weightKg)
		return mapPricingError(err)
	})
}

// AddWeightSurcharge appends a flat weight surcharge line
func (s *QuoteService) AddWeightSurcharge(id uuid.UUID, key string) (QuoteView, error) {
	return s.withSession(id, func(sess *quoteSession) error {
		_, err := sess.ledger.AddWeightSurcharge(key)
		return mapPricingError(err)
	})
}

// AddDimensionSurcharge appends a flat dimension surcharge line
func (s *QuoteService) AddDimensionSurcharge(id uuid.UUID, key string) (QuoteView, error) {
	return s.withSession(id, func(sess *quoteSession) error {
		_, err := sess.ledger.AddDimensionSurcharge(key)
		return mapPricingError(err)
	})
}

// AddAdditional appends an ad-hoc service line with lenient coercion
func (s *QuoteService) AddAdditional(id uuid.UUID, concept, rawPrice, rawQuantity string) (QuoteView, error) {
	return s.withSession(id, func(sess *quoteSession) error {
		if concept == "" {
			return apperror.NewBadRequestError("Concept is required")
		}
		sess.ledger.AddAdditional(concept, rawPrice, rawQuantity)
		return nil
	})
}

// UpdateLine applies a patch to a ledger line
func (s *QuoteService) UpdateLine(id, lineID uuid.UUID, patch pricing.LinePatch) (QuoteView, error) {
	return s.withSession(id, func(sess *quoteSession) error {
		_, err := sess.ledger.UpdateLine(lineID, patch)
		return mapPricingError(err)
	})
}

// RemoveLine drops a ledger line
func (s *QuoteService) RemoveLine(id, lineID uuid.UUID) (QuoteView, error) {
	return s.withSession(id, func(sess *quoteSession) error {
		return mapPricingError(sess.ledger.RemoveLine(lineID))
	})
}

// SetAdjustment records the manual correction line
func (s *QuoteService) SetAdjustment(id uuid.UUID, label, rawAmount string) (QuoteView, error) {
	return s.withSession(id, func(sess *quoteSession) error {
		sess.ledger.SetAdjustment(label, rawAmount)
		return nil
	})
}

// ClearAdjustment removes the manual correction line
func (s *QuoteService) ClearAdjustment(id uuid.UUID) (QuoteView, error) {
	return s.withSession(id, func(sess *quoteSession) error {
		sess.ledger.ClearAdjustment()
		return nil
	})
}

// Reset empties the session's ledger and returns it to the idle state
func (s *QuoteService) Reset(id uuid.UUID) (QuoteView, error) {
	return s.withSession(id, func(sess *quoteSession) error {
		sess.ledger.Reset()
		sess.state = DispatchIdle
		return nil
	})
}

// PDFExport carries rendered document bytes and the download filename
type PDFExport struct {
	Filename string
	Content  []byte
}

// ExportPDF renders the session's ledger as a PDF document
func (s *QuoteService) ExportPDF(id uuid.UUID) (*PDFExport, error) {
	sess, err := s.session(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	sess.lastAccess = s.now()
	snap := sess.ledger.Snapshot()
	sess.mu.Unlock()

	doc := export.NewQuoteDocument(snap, s.now())
	content, err := export.QuotePDF(doc)
	if err != nil {
		return nil, err
	}
	return &PDFExport{
		Filename: export.QuotePDFFilename(snap.ClientName),
		Content:  content,
	}, nil
}

// Dispatch sends the session's quote summary to the configured endpoint,
// authenticated as the requesting operator when a session token is given.
// Exactly one failure log entry is appended when the dispatch does not
// succeed; the ledger itself is never modified by a dispatch.
func (s *QuoteService) Dispatch(ctx context.Context, id uuid.UUID, clientEmail, operatorToken string) (QuoteView, error) {
	sess, err := s.session(id)
	if err != nil {
		return QuoteView{}, err
	}

	sess.mu.Lock()
	if sess.state == DispatchSending {
		sess.mu.Unlock()
		return QuoteView{}, apperror.NewConflictError("Dispatch already in progress")
	}
	sess.state = DispatchSending
	sess.lastAccess = s.now()
	snap := sess.ledger.Snapshot()
	sess.mu.Unlock()

	// The network call happens outside the session lock so edits from
	// other requests only wait on the state transition, not the wire.
	dispatchErr := s.dispatcher.Send(ctx, id, snap, clientEmail, operatorToken)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if dispatchErr != nil {
		sess.state = DispatchQueued
	} else {
		sess.state = DispatchSent
	}

	view := QuoteView{SessionID: id, State: sess.state, Snapshot: sess.ledger.Snapshot()}
	return view, dispatchErr
}

func mapPricingError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pricing.ErrQuoteOnRequest):
		return apperror.NewAppError(http.StatusConflict, "Service is quote-on-request, contact sales")
	case errors.Is(err, pricing.ErrUnknownService):
		return apperror.NewNotFoundError("Service")
	case errors.Is(err, pricing.ErrUnknownSurcharge):
		return apperror.NewNotFoundError("Surcharge")
	case errors.Is(err, pricing.ErrLineNotFound):
		return apperror.NewNotFoundError("Quote line")
	default:
		return err
	}
}
