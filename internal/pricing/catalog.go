package pricing

import (
	"errors"
	"fmt"
)

// Pricing errors returned by catalog lookups
var (
	// ErrQuoteOnRequest is returned when a service tier has no computed
	// price and must be quoted manually. Callers must surface a notice
	// instead of adding a line.
	ErrQuoteOnRequest = errors.New("pricing: service is quote-on-request")
	// ErrUnknownService is returned for a service id not in the sheet
	ErrUnknownService = errors.New("pricing: unknown service")
	// ErrUnknownSurcharge is returned for a surcharge key not in the table
	ErrUnknownSurcharge = errors.New("pricing: unknown surcharge")
)

// WeightBand maps an inclusive upper weight bound (kg) to a fixed price
type WeightBand struct {
	UpToKg float64 `json:"up_to_kg"`
	Price  float64 `json:"price"`
}

// ServiceRate is one delivery tier of a rate sheet. Either Bands/PerExtraKg
// are set, or QuoteOnRequest is true, never both. The normalization happens
// here, at catalog construction, so the rest of the engine never inspects
// alternate shapes.
type ServiceRate struct {
	Service        string       `json:"service"`
	Description    string       `json:"description"`
	RecommendedUse string       `json:"recommended_use"`
	Bands          []WeightBand `json:"bands,omitempty"`
	PerExtraKg     float64      `json:"per_extra_kg,omitempty"`
	QuoteOnRequest bool         `json:"quote_on_request"`
}

// RateSheet is a named, ordered collection of service tiers
type RateSheet struct {
	name     string
	order    []string
	services map[string]ServiceRate
}

// NewRateSheet builds a sheet from service entries, preserving order.
// An entry without weight bands cannot be priced and is normalized to
// quote-on-request here rather than checked at every lookup.
func NewRateSheet(name string, rates []ServiceRate) *RateSheet {
	s := &RateSheet{
		name:     name,
		services: make(map[string]ServiceRate, len(rates)),
	}
	for _, r := range rates {
		if len(r.Bands) == 0 {
			r.QuoteOnRequest = true
		}
		s.order = append(s.order, r.Service)
		s.services[r.Service] = r
	}
	return s
}

// Name returns the sheet's display name
func (s *RateSheet) Name() string { return s.name }

// Services returns the tiers in catalog order
func (s *RateSheet) Services() []ServiceRate {
	out := make([]ServiceRate, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.services[id])
	}
	return out
}

// Price resolves the price for a service at the given weight.
// Band bounds are inclusive: Price("19h", 2) resolves to the ≤2kg band.
// Weight beyond the last band is charged at the band price plus the
// per-kilogram overage for the excess.
func (s *RateSheet) Price(service string, weightKg float64) (float64, error) {
	rate, ok := s.services[service]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownService, service)
	}
	if rate.QuoteOnRequest {
		return 0, fmt.Errorf("%w: %q", ErrQuoteOnRequest, service)
	}

	for _, band := range rate.Bands {
		if weightKg <= band.UpToKg {
			return band.Price, nil
		}
	}

	last := rate.Bands[len(rate.Bands)-1]
	return last.Price + (weightKg-last.UpToKg)*rate.PerExtraKg, nil
}

// Surcharge is a flat fee keyed by a human-readable bucket label
type Surcharge struct {
	Key         string  `json:"key"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// SurchargeTable is a direct-lookup table of flat surcharges
type SurchargeTable struct {
	order   []string
	entries map[string]Surcharge
}

// NewSurchargeTable builds a table from entries, preserving order
func NewSurchargeTable(entries []Surcharge) *SurchargeTable {
	t := &SurchargeTable{entries: make(map[string]Surcharge, len(entries))}
	for _, e := range entries {
		t.order = append(t.order, e.Key)
		t.entries[e.Key] = e
	}
	return t
}

// Entries returns the surcharges in catalog order
func (t *SurchargeTable) Entries() []Surcharge {
	out := make([]Surcharge, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.entries[k])
	}
	return out
}

// Lookup resolves a surcharge by key
func (t *SurchargeTable) Lookup(key string) (Surcharge, error) {
	e, ok := t.entries[key]
	if !ok {
		return Surcharge{}, fmt.Errorf("%w: %q", ErrUnknownSurcharge, key)
	}
	return e, nil
}

// AdditionalService is an ad-hoc catalog entry. Variable entries carry no
// fixed price; the operator supplies one when the line is added.
type AdditionalService struct {
	Concept  string  `json:"concept"`
	Price    float64 `json:"price"`
	Variable bool    `json:"variable"`
}

// ExpressSheet returns the express messenger rate sheet. Bucket boundaries
// and prices are fixed catalog data, valid for the 2026 tariff year.
func ExpressSheet() *RateSheet {
	return NewRateSheet("Mensajería Express", []ServiceRate{
		{
			Service:        "19h",
			Description:    "Entrega antes de las 19:00",
			RecommendedUse: "Opción más económica del día",
			Bands:          []WeightBand{{2, 9.87}, {5, 10.17}, {10, 13.08}},
			PerExtraKg:     0.81,
		},
		{
			Service:        "14h",
			Description:    "Entrega antes de las 14:00",
			RecommendedUse: "Económico con franja horaria",
			Bands:          []WeightBand{{2, 14.04}, {5, 15.42}, {10, 24.03}},
			PerExtraKg:     1.68,
		},
		{
			Service:        "12h",
			Description:    "Entrega antes de las 12:00",
			RecommendedUse: "Rapidez y equilibrio",
			Bands:          []WeightBand{{2, 15.66}, {5, 17.73}, {10, 29.08}},
			PerExtraKg:     1.86,
		},
		{
			Service:        "10h",
			Description:    "Entrega antes de las 10:00",
			RecommendedUse: "Documentos o paquetería urgente",
			Bands:          []WeightBand{{2, 29.59}, {5, 32.63}, {10, 49.00}},
			PerExtraKg:     2.62,
		},
		{
			Service:        "08:30h",
			Description:    "Entrega antes de las 08:30",
			RecommendedUse: "Máxima urgencia",
			Bands:          []WeightBand{{2, 56.62}, {5, 62.11}, {10, 86.50}},
			PerExtraKg:     3.86,
		},
		{
			Service:        "HOY",
			Description:    "Entrega mismo día",
			RecommendedUse: "Envíos críticos",
			QuoteOnRequest: true,
		},
	})
}

// WeightSurcharges returns the flat per-package weight surcharges
func WeightSurcharges() *SurchargeTable {
	return NewSurchargeTable([]Surcharge{
		{Key: "40kg", Description: "Bultos de más de 40 kg", Price: 10.00},
		{Key: "60kg", Description: "Bultos de más de 60 kg", Price: 20.00},
	})
}

// DimensionSurcharges returns the flat surcharges by linear dimension range
// (sum of length + width + height, in cm)
func DimensionSurcharges() *SurchargeTable {
	return NewSurchargeTable([]Surcharge{
		{Key: "151-200", Description: "Suplemento 151–200 cm", Price: 22.35},
		{Key: "201-250", Description: "Suplemento 201–250 cm", Price: 67.77},
		{Key: "251-300", Description: "Suplemento 251–300 cm", Price: 114.00},
	})
}

// AdditionalServices returns the ad-hoc service catalog
func AdditionalServices() []AdditionalService {
	return []AdditionalService{
		{Concept: "Reembolsos / Adelantos (6% del valor)", Price: 6.00},
		{Concept: "Confirmación inmediata", Price: 0.75},
		{Concept: "Seguro adicional", Variable: true},
	}
}
