package export

import (
	"bytes"
	"strings"
)

// utf8BOM makes spreadsheet applications detect UTF-8 on open
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var csvHeaders = []string{
	"Código mensajero",
	"Nombre",
	"Email",
	"Teléfono",
	"Fecha de postulación",
	"Estado",
	"Motivación",
	"Experiencia",
	"Disponibilidad",
}

// ApplicationsCSV renders a campaign listing as a semicolon-delimited CSV.
// Every field is double-quoted, embedded quotes are doubled, and the output
// starts with a UTF-8 byte order mark.
func ApplicationsCSV(listing CampaignListing) []byte {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	writeCSVRecord(&buf, csvHeaders)
	for _, r := range listing.Rows {
		buf.WriteByte('\n')
		writeCSVRecord(&buf, []string{
			r.CourierCode,
			r.Name,
			r.Email,
			r.Phone,
			r.AppliedAt.Format("02/01/2006 15:04"),
			r.Status,
			r.Motivation,
			r.Experience,
			r.Availability,
		})
	}
	return buf.Bytes()
}

func writeCSVRecord(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(';')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
}
