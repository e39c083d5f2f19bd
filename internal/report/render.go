package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	apperrors "facilityaudit/internal/errors"
)

// Format is an export file format.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// ParseFormat accepts the query values clients send. An empty value means PDF.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pdf":
		return FormatPDF, nil
	case "excel", "xlsx":
		return FormatExcel, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", apperrors.ErrUnsupportedFormat
	}
}

// File is a rendered export ready to be sent as an attachment.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}

// Render writes t in format. JSON exports encode records instead of the table.
func Render(format Format, baseName string, t Table, records any) (*File, error) {
	switch format {
	case FormatPDF:
		body, err := PDF(t)
		return &File{Name: baseName + ".pdf", ContentType: "application/pdf", Body: body}, err
	case FormatExcel:
		body, err := XLSX(t)
		return &File{Name: baseName + ".xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Body: body}, err
	case FormatCSV:
		body, err := CSV(t)
		return &File{Name: baseName + ".csv", ContentType: "text/csv", Body: body}, err
	case FormatJSON:
		body, err := json.MarshalIndent(records, "", "  ")
		return &File{Name: baseName + ".json", ContentType: "application/json", Body: body}, err
	default:
		return nil, apperrors.ErrUnsupportedFormat
	}
}

// CSV renders t with a header row.
func CSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Headers); err != nil {
		return nil, err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

// XLSX renders t on a single sheet with a frozen, bold header row.
func XLSX(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Report"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for r, row := range t.Rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, err
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return nil, err
	}
	if len(t.Headers) > 0 {
		last, err := excelize.ColumnNumberToName(len(t.Headers))
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, "A", last, 20); err != nil {
			return nil, err
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// gridColumns is the widest table still printed as a grid; wider tables are
// printed one record per block.
const gridColumns = 6

// PDF renders t on landscape A4 pages.
func PDF(t Table) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(t.Title, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(t.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s, %d record(s)", t.GeneratedAt.Format("2006-01-02 15:04"), len(t.Rows)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(t.Rows) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 8, "No records found.", "", 1, "L", false, 0, "")
	} else if len(t.Headers) <= gridColumns {
		pdfGrid(pdf, tr, t)
	} else {
		pdfRecords(pdf, tr, t)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfGrid(pdf *gofpdf.Fpdf, tr func(string) string, t Table) {
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := (pageWidth - left - right) / float64(len(t.Headers))

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(221, 235, 247)
	for _, h := range t.Headers {
		pdf.CellFormat(width, 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range t.Rows {
		for i := range t.Headers {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			pdf.CellFormat(width, 7, tr(value), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func pdfRecords(pdf *gofpdf.Fpdf, tr func(string) string, t Table) {
	for n, row := range t.Rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetFillColor(221, 235, 247)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("Record %d of %d", n+1, len(t.Rows))), "1", 1, "L", true, 0, "")
		for i, h := range t.Headers {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			pdf.SetFont("Helvetica", "B", 8)
			pdf.CellFormat(110, 5, tr(h), "1", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 8)
			pdf.MultiCell(0, 5, tr(value), "1", "L", false)
		}
		pdf.Ln(4)
	}
}
