package timesheet

import (
	"slices"

	"github.com/google/uuid"
)

// Filter holds the four independent row filters. Zero values mean "no
// restriction"; set filters are AND-combined.
type Filter struct {
	EmployeeID       uuid.UUID
	PropertyRef      string
	EntityID         uuid.UUID
	BillingAccountID uuid.UUID
}

// Matches reports whether a row passes every set filter.
func (f Filter) Matches(row *TimeEntryRow) bool {
	if f.EmployeeID != uuid.Nil && row.EmployeeID != f.EmployeeID {
		return false
	}
	if f.PropertyRef != "" && row.PropertyRef != f.PropertyRef {
		return false
	}
	if f.EntityID != uuid.Nil && row.EntityID != f.EntityID {
		return false
	}
	if f.BillingAccountID != uuid.Nil && row.BillingAccountID != f.BillingAccountID {
		return false
	}
	return true
}

// Dataset is the in-memory working set of time entry rows for one billing
// period, with filtering and unsaved-changes tracking. It is not safe for
// concurrent use; all mutations run on the single event path.
type Dataset struct {
	rows   []*TimeEntryRow
	filter Filter
	dirty  bool
}

// NewDataset creates an empty dataset.
func NewDataset() *Dataset {
	return &Dataset{}
}

// Rows returns the full working set in order.
func (d *Dataset) Rows() []*TimeEntryRow {
	return d.rows
}

// Snapshot returns a deep copy of the working set, safe to hand across a
// goroutine or I/O boundary while the live rows keep being edited.
func (d *Dataset) Snapshot() []*TimeEntryRow {
	snap := make([]*TimeEntryRow, len(d.rows))
	for i, row := range d.rows {
		snap[i] = row.Clone()
	}
	return snap
}

// Visible returns the rows passing the current filters. The underlying set is
// not mutated; the returned slice is a fresh view.
func (d *Dataset) Visible() []*TimeEntryRow {
	visible := make([]*TimeEntryRow, 0, len(d.rows))
	for _, row := range d.rows {
		if d.filter.Matches(row) {
			visible = append(visible, row)
		}
	}
	return visible
}

// SetFilter replaces the active filters. Filtering never touches the dirty
// flag: it is a view concern, not a data change.
func (d *Dataset) SetFilter(f Filter) {
	d.filter = f
}

// Filter returns the active filters.
func (d *Dataset) Filter() Filter {
	return d.filter
}

// Find returns the row with the given ID.
func (d *Dataset) Find(id uuid.UUID) (*TimeEntryRow, bool) {
	for _, row := range d.rows {
		if row.ID == id {
			return row, true
		}
	}
	return nil, false
}

// AddBlank prepends a new blank, invalid row and returns it.
func (d *Dataset) AddBlank() *TimeEntryRow {
	row := NewBlankRow()
	d.rows = append([]*TimeEntryRow{row}, d.rows...)
	d.dirty = true
	return row
}

// Delete removes the row with the given ID. Removal is hard; the engine
// never soft-deletes.
func (d *Dataset) Delete(id uuid.UUID) bool {
	for i, row := range d.rows {
		if row.ID == id {
			d.rows = slices.Delete(d.rows, i, i+1)
			d.dirty = true
			return true
		}
	}
	return false
}

// ReplaceAll swaps in a new working set (bulk reload or period switch).
func (d *Dataset) ReplaceAll(rows []*TimeEntryRow) {
	d.rows = rows
	d.dirty = true
}

// HasUnsavedChanges reports whether the working set differs from the last
// successful persist.
func (d *Dataset) HasUnsavedChanges() bool {
	return d.dirty
}

// MarkDirty records that the working set changed.
func (d *Dataset) MarkDirty() {
	d.dirty = true
}

// MarkSaved clears the dirty flag. Only call after a successful persist.
func (d *Dataset) MarkSaved() {
	d.dirty = false
}

// AllValid reports whether every row in the working set resolves cleanly.
// Committing an invoice requires this; saving a draft does not.
func (d *Dataset) AllValid() bool {
	for _, row := range d.rows {
		if row.IsError {
			return false
		}
	}
	return true
}
