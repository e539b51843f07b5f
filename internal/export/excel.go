package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ApplicationsExcel renders a campaign listing as an .xlsx workbook and
// returns the file contents
func ApplicationsExcel(listing CampaignListing) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet names are capped at 31 characters; truncate by runes so a
	// multibyte title is never split mid-character
	sheetName := listing.CampaignTitle
	if runes := []rune(sheetName); len(runes) > 31 {
		sheetName = string(runes[:31])
	}
	if sheetName == "" {
		sheetName = "Postulaciones"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
	widths := []float64{14, 26, 30, 16, 18, 12, 40, 40, 24}
	for i, c := range columns {
		if err := f.SetColWidth(sheetName, c, c, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, h := range csvHeaders {
		cell := fmt.Sprintf("%s1", columns[i])
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
	}
	if err := f.SetCellStyle(sheetName, "A1", "I1", headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, r := range listing.Rows {
		rowIdx := i + 2
		values := []interface{}{
			r.CourierCode,
			r.Name,
			r.Email,
			r.Phone,
			r.AppliedAt.Format("02/01/2006 15:04"),
			r.Status,
			r.Motivation,
			r.Experience,
			r.Availability,
		}
		for j, v := range values {
			cell := fmt.Sprintf("%s%d", columns[j], rowIdx)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
