package report

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"facilityaudit/internal/model"
)

const dateLayout = "2006-01-02"

// Table is the format independent shape every export is rendered from.
type Table struct {
	Title       string
	GeneratedAt time.Time
	Headers     []string
	Rows        [][]string
}

var leadingHeaders = []string{"ID", "Client Name", "Location", "Status", "Inspection Date"}

var trailingHeaders = []string{"Comments", "Created By", "Compliance %"}

// FromChecklists flattens checklist rows into a table. Yes/no items become
// "Yes"/"No" columns named after their JSON field.
func FromChecklists[P model.Checklist](title string, rows []P) Table {
	var zero P
	fields := itemFields(reflect.TypeOf(zero))

	headers := append([]string{}, leadingHeaders...)
	for _, f := range fields {
		headers = append(headers, f.header)
	}
	headers = append(headers, trailingHeaders...)

	t := Table{Title: title, GeneratedAt: time.Now(), Headers: headers}
	for _, row := range rows {
		t.Rows = append(t.Rows, checklistRow(row, fields))
	}
	return t
}

// StatusSummary builds a status, count and share table from counts.
func StatusSummary(title string, counts map[model.InspectionStatus]int64) Table {
	var total int64
	for _, n := range counts {
		total += n
	}
	t := Table{Title: title, GeneratedAt: time.Now(), Headers: []string{"Status", "Count", "Share %"}}
	for _, status := range model.Statuses {
		n := counts[status]
		t.Rows = append(t.Rows, []string{Humanize(string(status)), fmt.Sprint(n), Percent(n, total).StringFixed(1)})
	}
	t.Rows = append(t.Rows, []string{"Total", fmt.Sprint(total), Percent(total, total).StringFixed(1)})
	return t
}

// Percent returns part/total as a percentage rounded to one place, zero when total is zero.
func Percent(part, total int64) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(total), 1)
}

// Humanize turns a snake_case name into a title.
func Humanize(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

type itemField struct {
	index  []int
	header string
}

var skippedFields = map[string]bool{"inspection_id": true, "inspection": true, "-": true}

// itemFields lists the exported variant fields of a checklist pointer type,
// skipping the shared metadata and the base inspection link.
func itemFields(typ reflect.Type) []itemField {
	if typ == nil {
		return nil
	}
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	var out []itemField
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Anonymous || !f.IsExported() {
			continue
		}
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "" {
			name = f.Name
		}
		if skippedFields[name] {
			continue
		}
		out = append(out, itemField{index: f.Index, header: Humanize(name)})
	}
	return out
}

func checklistRow(c model.Checklist, fields []itemField) []string {
	meta := c.Meta()
	row := []string{fmt.Sprint(meta.ID), "", "", "", ""}
	createdBy := ""
	if base := c.Base(); base != nil {
		row[1] = base.ClientName
		row[2] = base.Location
		row[3] = Humanize(string(base.Status))
		if base.InspectionDate != nil {
			row[4] = base.InspectionDate.Format(dateLayout)
		}
		createdBy = base.CreatorName()
	}

	v := reflect.ValueOf(c)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	var yes, answered int64
	for _, f := range fields {
		fv := v.FieldByIndex(f.index)
		if fv.Kind() == reflect.Bool {
			answered++
			if fv.Bool() {
				yes++
			}
		}
		row = append(row, formatValue(fv))
	}
	return append(row, meta.Comments, createdBy, Percent(yes, answered).StringFixed(1))
}

func formatValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return "Yes"
		}
		return "No"
	case reflect.Pointer:
		if v.IsNil() {
			return ""
		}
		return formatValue(v.Elem())
	case reflect.Slice:
		parts := make([]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			parts = append(parts, formatValue(v.Index(i)))
		}
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	}
	if t, ok := v.Interface().(time.Time); ok {
		return t.Format(dateLayout)
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v.Interface())
}
