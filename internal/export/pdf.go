package export

import (
	"fmt"
	"strconv"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/onusexpress/courier-api/internal/pricing"
)

var quoteTerms = []string{
	"Tarifas expresadas en euros, IVA no incluido.",
	"Validez de la oferta: 30 días desde la fecha de emisión.",
	"Los suplementos por peso y dimensiones se aplican por bulto.",
	"Servicio HOY sujeto a disponibilidad, consultar precio.",
}

// QuotePDF renders a quote document into PDF bytes
func QuotePDF(doc QuoteDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		Build()

	m := maroto.New(cfg)

	addQuoteHeader(m, doc)
	addQuoteTableHeader(m)
	for i, line := range doc.Lines {
		addQuoteLine(m, i+1, line)
	}
	if !doc.Adjustment.IsZero() {
		addAdjustmentLine(m, len(doc.Lines)+1, doc.Adjustment)
	}
	addQuoteTotal(m, doc.Total)
	addQuoteTerms(m, doc)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate quote pdf: %w", err)
	}
	return out.GetBytes(), nil
}

func addQuoteHeader(m core.Maroto, doc QuoteDocument) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(doc.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	client := doc.ClientName
	if client == "" {
		client = "—"
	}
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Cliente: %s", client), props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Fecha: %s", doc.GeneratedAt.Format("02/01/2006")), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
		row.New(4),
	)
}

func addQuoteTableHeader(m core.Maroto) {
	headerCell := props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(&headerCell),
			col.New(6).Add(text.New("Concepto", headerTextLeft)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Precio ud.", headerText)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Cant.", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Subtotal", headerText)).WithStyle(&headerCell),
		),
	)
}

func addQuoteLine(m core.Maroto, index int, line pricing.Line) {
	base := props.Text{Size: 8, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right

	m.AddRows(
		row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(index), base)),
			col.New(6).Add(text.New(line.Description, left)),
			col.New(2).Add(text.New(formatEUR(line.UnitPrice), right)),
			col.New(1).Add(text.New(strconv.Itoa(line.Quantity), base)),
			col.New(2).Add(text.New(formatEUR(line.Subtotal()), right)),
		),
	)
}

func addAdjustmentLine(m core.Maroto, index int, adj pricing.Adjustment) {
	cell := props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
	base := props.Text{Size: 8, Style: fontstyle.Italic, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right

	label := adj.Label
	if label == "" {
		label = "Ajuste manual"
	}
	m.AddRows(
		row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(index), base)).WithStyle(&cell),
			col.New(6).Add(text.New(label, left)).WithStyle(&cell),
			col.New(2).Add(text.New(formatEUR(adj.Amount), right)).WithStyle(&cell),
			col.New(1).Add(text.New("1", base)).WithStyle(&cell),
			col.New(2).Add(text.New(formatEUR(adj.Amount), right)).WithStyle(&cell),
		),
	)
}

func addQuoteTotal(m core.Maroto, total float64) {
	cell := props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	label := props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}

	m.AddRows(
		row.New(4),
		row.New(9).Add(
			col.New(8).Add(text.New("TOTAL", label)).WithStyle(&cell),
			col.New(4).Add(text.New(formatEUR(total), label)).WithStyle(&cell),
		),
	)
}

func addQuoteTerms(m core.Maroto, doc QuoteDocument) {
	m.AddRows(row.New(6))
	for _, term := range quoteTerms {
		m.AddRows(
			row.New(5).Add(
				col.New(12).Add(
					text.New("· "+term, props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 110, Green: 110, Blue: 110},
					}),
				),
			),
		)
	}
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Documento generado el %s", doc.GeneratedAt.Format("02/01/2006 15:04")),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}

func formatEUR(v float64) string {
	return pricing.FormatAmount(v) + " €"
}
