package timesheet

import "github.com/shopspring/decimal"

// SourceFormat identifies which of the two supported file layouts a record
// came from. It is assigned once by the normalizer; nothing downstream
// re-inspects raw headers.
type SourceFormat string

const (
	// SourceFormatTimeClock is the punch-clock export with start/end timestamps.
	SourceFormatTimeClock SourceFormat = "TIME_CLOCK"
	// SourceFormatManual is the hand-keyed sheet with a duration in minutes.
	SourceFormatManual SourceFormat = "MANUAL"
)

// CanonicalTimeRecord is the normalized intermediate form produced by the
// format detector, independent of the source file layout. Names are still raw
// text; resolution to IDs happens in the Resolver.
type CanonicalTimeRecord struct {
	EmployeeName string
	// Date is normalized to YYYY-MM-DD.
	Date         string
	PropertyName string
	CategoryName string
	Hours        decimal.Decimal
	Mileage      decimal.Decimal
	Notes        string
	SourceFormat SourceFormat
}
