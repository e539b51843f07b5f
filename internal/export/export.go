// Package export renders quote ledgers and campaign application listings
// into downloadable documents (PDF, CSV, Excel).
package export

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/onusexpress/courier-api/internal/pricing"
)

// QuoteDocumentID is the fixed identifier prefix of exported quote PDFs
const QuoteDocumentID = "tarifario-mensajeria-express-2026"

// CSVPrefix is the fixed prefix of exported application listings
const CSVPrefix = "ONUS_Postulaciones"

var (
	slugRe  = regexp.MustCompile(`[^a-z0-9]+`)
	tokenRe = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// Slug lowercases a name and collapses every non-alphanumeric run into a
// single hyphen, trimming leading and trailing hyphens
func Slug(name string) string {
	s := slugRe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// fileToken replaces every non-alphanumeric character with an underscore.
// Spreadsheet filenames use this stricter form.
func fileToken(name string) string {
	t := tokenRe.ReplaceAllString(name, "_")
	if t == "" {
		return "Campana"
	}
	return t
}

// QuotePDFFilename derives the deterministic download name for a quote.
// An empty client name drops the slug suffix entirely.
func QuotePDFFilename(clientName string) string {
	if slug := Slug(clientName); slug != "" {
		return fmt.Sprintf("%s-%s.pdf", QuoteDocumentID, slug)
	}
	return QuoteDocumentID + ".pdf"
}

// ApplicationsCSVFilename derives the download name for a campaign's
// application listing
func ApplicationsCSVFilename(campaignTitle string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s.csv", CSVPrefix, fileToken(campaignTitle), now.Format("2006-01-02"))
}

// ApplicationsExcelFilename derives the download name for the Excel variant
func ApplicationsExcelFilename(campaignTitle string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s.xlsx", CSVPrefix, fileToken(campaignTitle), now.Format("2006-01-02"))
}

// QuoteDocument is the renderable view of a quote ledger
type QuoteDocument struct {
	Title       string
	ClientName  string
	GeneratedAt time.Time
	Lines       []pricing.Line
	Adjustment  pricing.Adjustment
	Total       float64
}

// NewQuoteDocument builds the renderable view from a ledger snapshot
func NewQuoteDocument(snap pricing.Snapshot, now time.Time) QuoteDocument {
	return QuoteDocument{
		Title:       "Tarifario Mensajería Express 2026",
		ClientName:  snap.ClientName,
		GeneratedAt: now,
		Lines:       snap.Lines,
		Adjustment:  snap.Adjustment,
		Total:       snap.Total,
	}
}

// ApplicationRow is one courier application in a campaign listing
type ApplicationRow struct {
	CourierCode  string
	Name         string
	Email        string
	Phone        string
	AppliedAt    time.Time
	Status       string
	Motivation   string
	Experience   string
	Availability string
}

// CampaignListing is a campaign's application set ready for export
type CampaignListing struct {
	CampaignTitle string
	Rows          []ApplicationRow
}
