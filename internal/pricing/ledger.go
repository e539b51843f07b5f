package pricing

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrLineNotFound is returned when an edit or removal targets a line id
// that is not in the ledger
var ErrLineNotFound = errors.New("pricing: line not found")

// LineCategory tags where a ledger line came from
type LineCategory string

const (
	CategoryService    LineCategory = "servicio"
	CategoryWeight     LineCategory = "suplemento_peso"
	CategoryDimension  LineCategory = "suplemento_dimension"
	CategoryAdditional LineCategory = "servicio_adicional"
)

// Line is one priced entry of a quote ledger
type Line struct {
	ID          uuid.UUID    `json:"id"`
	Category    LineCategory `json:"category"`
	Description string       `json:"description"`
	UnitPrice   float64      `json:"unit_price"`
	Quantity    int          `json:"quantity"`
}

// Subtotal is the line's unit price times its quantity
func (l Line) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Adjustment is a single manual correction applied on top of the lines.
// A zero adjustment is excluded from totals and exports.
type Adjustment struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// IsZero reports whether the adjustment carries nothing
func (a Adjustment) IsZero() bool {
	return a.Label == "" && a.Amount == 0
}

// LinePatch carries the editable fields of a line. Nil fields are left
// unchanged; set fields go through the lenient coercion of parse.go.
type LinePatch struct {
	Description *string
	UnitPrice   *string
	Quantity    *string
}

// Ledger accumulates the lines of one quote under construction. It is not
// safe for concurrent use; the session layer serializes access.
type Ledger struct {
	clientName string
	lines      []Line
	adjustment Adjustment

	sheet     *RateSheet
	weightSur *SurchargeTable
	dimSur    *SurchargeTable
}

// NewLedger returns an empty ledger priced against the given catalogs
func NewLedger(sheet *RateSheet, weight, dimension *SurchargeTable) *Ledger {
	return &Ledger{sheet: sheet, weightSur: weight, dimSur: dimension}
}

// SetClientName records the client name used on exports and dispatches
func (g *Ledger) SetClientName(name string) { g.clientName = name }

// ClientName returns the recorded client name
func (g *Ledger) ClientName() string { return g.clientName }

// AddService prices a delivery tier at the given weight and appends the
// resulting line. Quote-on-request tiers return ErrQuoteOnRequest and
// leave the ledger untouched.
func (g *Ledger) AddService(service string, weightKg float64) (Line, error) {
	price, err := g.sheet.Price(service, weightKg)
	if err != nil {
		return Line{}, err
	}
	return g.append(Line{
		Category:    CategoryService,
		Description: fmt.Sprintf("%s (%skg)", service, FormatWeight(weightKg)),
		UnitPrice:   price,
		Quantity:    1,
	}), nil
}

// AddWeightSurcharge appends the flat surcharge for a weight bucket
func (g *Ledger) AddWeightSurcharge(key string) (Line, error) {
	s, err := g.weightSur.Lookup(key)
	if err != nil {
		return Line{}, err
	}
	return g.append(Line{
		Category:    CategoryWeight,
		Description: s.Description,
		UnitPrice:   s.Price,
		Quantity:    1,
	}), nil
}

// AddDimensionSurcharge appends the flat surcharge for a dimension range
func (g *Ledger) AddDimensionSurcharge(key string) (Line, error) {
	s, err := g.dimSur.Lookup(key)
	if err != nil {
		return Line{}, err
	}
	return g.append(Line{
		Category:    CategoryDimension,
		Description: s.Description,
		UnitPrice:   s.Price,
		Quantity:    1,
	}), nil
}

// AddAdditional appends an ad-hoc service line. Price and quantity arrive
// as raw text and are coerced leniently.
func (g *Ledger) AddAdditional(concept, rawPrice, rawQuantity string) Line {
	price, _ := ParseAmount(rawPrice)
	qty, _ := ParseQuantity(rawQuantity)
	return g.append(Line{
		Category:    CategoryAdditional,
		Description: concept,
		UnitPrice:   price,
		Quantity:    qty,
	})
}

// UpdateLine applies a patch to an existing line
func (g *Ledger) UpdateLine(id uuid.UUID, patch LinePatch) (Line, error) {
	for i := range g.lines {
		if g.lines[i].ID != id {
			continue
		}
		if patch.Description != nil {
			g.lines[i].Description = *patch.Description
		}
		if patch.UnitPrice != nil {
			g.lines[i].UnitPrice, _ = ParseAmount(*patch.UnitPrice)
		}
		if patch.Quantity != nil {
			g.lines[i].Quantity, _ = ParseQuantity(*patch.Quantity)
		}
		return g.lines[i], nil
	}
	return Line{}, ErrLineNotFound
}

// RemoveLine drops a line from the ledger
func (g *Ledger) RemoveLine(id uuid.UUID) error {
	for i := range g.lines {
		if g.lines[i].ID == id {
			g.lines = append(g.lines[:i], g.lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// SetAdjustment records the single manual correction. The amount arrives
// as raw text; signed values are accepted.
func (g *Ledger) SetAdjustment(label, rawAmount string) Adjustment {
	amount, _ := ParseAmount(rawAmount)
	g.adjustment = Adjustment{Label: label, Amount: amount}
	return g.adjustment
}

// ClearAdjustment removes the manual correction
func (g *Ledger) ClearAdjustment() { g.adjustment = Adjustment{} }

// Reset empties the ledger. Client name and adjustment clear too.
func (g *Ledger) Reset() {
	g.clientName = ""
	g.lines = nil
	g.adjustment = Adjustment{}
}

// Lines returns a copy of the ledger lines in insertion order
func (g *Ledger) Lines() []Line {
	out := make([]Line, len(g.lines))
	copy(out, g.lines)
	return out
}

// Adjustment returns the current manual correction
func (g *Ledger) Adjustment() Adjustment { return g.adjustment }

// Total sums every line subtotal plus the manual adjustment
func (g *Ledger) Total() float64 {
	var total float64
	for _, l := range g.lines {
		total += l.Subtotal()
	}
	return total + g.adjustment.Amount
}

// Snapshot is an immutable view of a ledger at a point in time, used by
// exports and dispatches
type Snapshot struct {
	ClientName string     `json:"client_name"`
	Lines      []Line     `json:"lines"`
	Adjustment Adjustment `json:"adjustment"`
	Total      float64    `json:"total"`
}

// Snapshot captures the ledger's current state
func (g *Ledger) Snapshot() Snapshot {
	return Snapshot{
		ClientName: g.clientName,
		Lines:      g.Lines(),
		Adjustment: g.adjustment,
		Total:      g.Total(),
	}
}

func (g *Ledger) append(l Line) Line {
	l.ID = uuid.New()
	g.lines = append(g.lines, l)
	return l
}
