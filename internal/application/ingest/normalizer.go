// Package ingestapp classifies raw time entry exports into one of the two
// supported layouts and normalizes them into canonical records.
package ingestapp

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/propertyops/billback/internal/domain/timesheet"
	"github.com/propertyops/billback/internal/infrastructure/ingest"
)

// Column names of the time-clock export.
const (
	colEmployee = "Employee"
	colDate     = "Date"
	colTimeIn   = "Time In"
	colTimeOut  = "Time Out"
	colJobName  = "Job Name"
	colMileage  = "Mileage"
	colNotes    = "Notes"
)

// Column names of the manual-entry sheet.
const (
	colMinutes  = "Minutes"
	colTask     = "Task"
	colProperty = "Property"
	colCategory = "Category"
)

// jobNameSeparator splits the time-clock composite job name into
// (property, category).
const jobNameSeparator = " - "

// FormatError reports an unrecognized file layout. It is fatal to the whole
// batch: no rows are ingested from a file that matches neither layout.
type FormatError struct {
	Headers []string
}

// Error implements the error interface
func (e *FormatError) Error() string {
	return fmt.Sprintf("unrecognized time entry layout (headers: %s); expected either %q+%q or %q+%q",
		strings.Join(e.Headers, ", "), colTimeIn, colTimeOut, colMinutes, colTask)
}

// Normalizer detects the source layout of a raw batch and emits canonical
// time records. It is stateless and safe to reuse across batches.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// DetectFormat classifies a batch by header presence. The batch must contain
// exactly one of the two known layouts; anything else is a FormatError.
// Detection runs over the union of all rows' keys: CSV-parsed rows each carry
// every header, but hand-built batches may populate maps sparsely.
func (n *Normalizer) DetectFormat(rows []ingest.RawRow) (timesheet.SourceFormat, error) {
	if len(rows) == 0 {
		return "", &FormatError{}
	}
	seen := make(map[string]bool)
	headers := make([]string, 0, len(rows[0]))
	for _, row := range rows {
		for h := range row {
			if !seen[h] {
				seen[h] = true
				headers = append(headers, h)
			}
		}
	}
	has := func(name string) bool {
		return seen[name]
	}
	switch {
	case has(colTimeIn) && has(colTimeOut):
		return timesheet.SourceFormatTimeClock, nil
	case has(colMinutes) && has(colTask):
		return timesheet.SourceFormatManual, nil
	default:
		return "", &FormatError{Headers: headers}
	}
}

// Normalize classifies and converts a whole batch. Rows where every field is
// empty are dropped silently; a layout mismatch fails the entire batch.
func (n *Normalizer) Normalize(rows []ingest.RawRow) ([]timesheet.CanonicalTimeRecord, error) {
	if len(rows) == 0 {
		return []timesheet.CanonicalTimeRecord{}, nil
	}
	format, err := n.DetectFormat(rows)
	if err != nil {
		return nil, err
	}

	records := make([]timesheet.CanonicalTimeRecord, 0, len(rows))
	for _, row := range rows {
		if row.IsEmpty() {
			continue
		}
		var rec timesheet.CanonicalTimeRecord
		if format == timesheet.SourceFormatTimeClock {
			rec = n.normalizeTimeClock(row)
		} else {
			rec = n.normalizeManual(row)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (n *Normalizer) normalizeTimeClock(row ingest.RawRow) timesheet.CanonicalTimeRecord {
	property, category := splitJobName(row.Get(colJobName))
	date := normalizeDate(row.Get(colDate))
	return timesheet.CanonicalTimeRecord{
		EmployeeName: row.Get(colEmployee),
		Date:         date,
		PropertyName: property,
		CategoryName: category,
		Hours:        elapsedHours(date, row.Get(colTimeIn), row.Get(colTimeOut)),
		Mileage:      timesheet.ParseAmount(row.Get(colMileage)),
		Notes:        row.Get(colNotes),
		SourceFormat: timesheet.SourceFormatTimeClock,
	}
}

func (n *Normalizer) normalizeManual(row ingest.RawRow) timesheet.CanonicalTimeRecord {
	minutes := timesheet.ParseAmount(row.Get(colMinutes))
	return timesheet.CanonicalTimeRecord{
		EmployeeName: row.Get(colEmployee),
		Date:         normalizeDate(row.Get(colDate)),
		PropertyName: row.Get(colProperty),
		CategoryName: row.Get(colCategory),
		Hours:        minutes.Div(decimal.NewFromInt(60)).Round(2),
		Mileage:      decimal.Zero,
		Notes:        row.Get(colTask),
		SourceFormat: timesheet.SourceFormatManual,
	}
}

// splitJobName splits the composite "Property - Category" field on the first
// separator occurrence. A field without the separator is all property.
func splitJobName(jobName string) (property, category string) {
	property, category, found := strings.Cut(jobName, jobNameSeparator)
	if !found {
		return strings.TrimSpace(jobName), ""
	}
	return strings.TrimSpace(property), strings.TrimSpace(category)
}

// normalizeDate converts MM/DD/YYYY to YYYY-MM-DD. Already-normalized or
// unparseable dates pass through unchanged for the user to correct.
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if parsed, err := time.Parse("01/02/2006", raw); err == nil {
		return parsed.Format("2006-01-02")
	}
	if parsed, err := time.Parse("1/2/2006", raw); err == nil {
		return parsed.Format("2006-01-02")
	}
	return raw
}

// clock timestamp layouts accepted by the time-clock export, tried in order.
var clockLayouts = []string{
	"01/02/2006 03:04 PM",
	"1/2/2006 3:04 PM",
	"01/02/2006 15:04",
	"2006-01-02 15:04:05",
}

// time-only layouts combined with the row's date column.
var timeOnlyLayouts = []string{
	"03:04 PM",
	"3:04 PM",
	"15:04",
}

// elapsedHours computes (out - in) in hours rounded to two decimals. A punch
// pair crossing midnight counts as an overnight shift. Unparseable punches
// compute as zero hours; the row surfaces through validation, not here.
func elapsedHours(date, timeIn, timeOut string) decimal.Decimal {
	start, okIn := parseClock(date, timeIn)
	end, okOut := parseClock(date, timeOut)
	if !okIn || !okOut {
		return decimal.Zero
	}
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}
	seconds := end.Sub(start).Seconds()
	return decimal.NewFromFloat(seconds / 3600).Round(2)
}

func parseClock(date, raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range clockLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	for _, layout := range timeOnlyLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			if day, err := time.Parse("2006-01-02", date); err == nil {
				return day.Add(time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute), true
			}
			return parsed, true
		}
	}
	return time.Time{}, false
}
