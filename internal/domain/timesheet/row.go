package timesheet

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// groupRefPrefix distinguishes a property-group reference from a raw property
// ID in a row's PropertyRef field. A UUID can never start with it.
const groupRefPrefix = "group-"

// GroupRef builds the property reference string for a property group.
func GroupRef(id uuid.UUID) string {
	return groupRefPrefix + id.String()
}

// PropertyRefFor builds the property reference string for an individual property.
func PropertyRefFor(id uuid.UUID) string {
	return id.String()
}

// IsGroupRef reports whether the reference names a property group.
func IsGroupRef(ref string) bool {
	return strings.HasPrefix(ref, groupRefPrefix)
}

// GroupIDFromRef extracts the group ID from a group reference.
func GroupIDFromRef(ref string) (uuid.UUID, bool) {
	if !IsGroupRef(ref) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimPrefix(ref, groupRefPrefix))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// PropertyIDFromRef extracts the property ID from a direct property reference.
func PropertyIDFromRef(ref string) (uuid.UUID, bool) {
	if ref == "" || IsGroupRef(ref) {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// NotFoundLabel is the placeholder shown wherever a raw name failed to
// resolve, preserving the original text so the user can diagnose a typo.
func NotFoundLabel(raw string) string {
	return "NOT FOUND: " + raw
}

// TimeEntryRow is the mutable working unit of the billback dataset. Its ID is
// generated once at creation and never reused. IsError is always derived,
// never set directly; use Revalidate after changing reference-bearing fields.
type TimeEntryRow struct {
	ID   uuid.UUID
	Date string

	EmployeeID   uuid.UUID
	EmployeeName string

	// PropertyRef is empty, a property UUID string, or a "group-" prefixed
	// group reference; never ambiguous between the two.
	PropertyRef  string
	PropertyName string
	EntityID     uuid.UUID
	EntityName   string

	BillingAccountID uuid.UUID
	CategoryName     string

	// Rate is the employee's labor rate; BillingRate the category's billable
	// rate (zero means the category bills at labor cost).
	Rate        decimal.Decimal
	BillingRate decimal.Decimal

	// Hours and Mileage keep the raw display value: blank is distinct from
	// "0" on screen but both compute as zero.
	Hours   string
	Mileage string

	Notes        string
	SourceFormat SourceFormat

	Total        decimal.Decimal
	BillingTotal decimal.Decimal
	MileageTotal decimal.Decimal
	JobTotal     decimal.Decimal

	IsError bool
}

// Clone returns an independent copy of the row. Every field is a value type
// (decimals are immutable once built), so a struct copy fully detaches the
// clone from later edits to the original.
func (r *TimeEntryRow) Clone() *TimeEntryRow {
	c := *r
	return &c
}

// NewBlankRow creates an empty row with a fresh ID. A blank row is invalid by
// construction until the user fills in its references.
func NewBlankRow() *TimeEntryRow {
	return &TimeEntryRow{
		ID:      uuid.New(),
		IsError: true,
	}
}

// ParseAmount converts a raw numeric field to a decimal for computation.
// Blank, unparseable and negative input all compute as zero; the raw text is
// preserved on the row for display.
func ParseAmount(raw string) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// HoursDecimal returns the hours value used for computation.
func (r *TimeEntryRow) HoursDecimal() decimal.Decimal {
	return ParseAmount(r.Hours)
}

// MileageDecimal returns the mileage value used for computation.
func (r *TimeEntryRow) MileageDecimal() decimal.Decimal {
	return ParseAmount(r.Mileage)
}
