package timesheet

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propertyops/billback/internal/domain/refdata"
)

// Field names a single editable column of a TimeEntryRow.
type Field string

const (
	FieldEmployee Field = "employee"
	FieldCategory Field = "category"
	FieldHours    Field = "hours"
	FieldMileage  Field = "mileage"
	FieldProperty Field = "property"
	FieldDate     Field = "date"
	FieldNotes    Field = "notes"
)

// Mutator applies single-field edits to a row, cascades the dependent
// recomputation and re-derives validity. No edit is ever rejected: invalid
// intermediate states are permitted and surfaced only through IsError.
type Mutator struct {
	calc *Calculator
}

// NewMutator creates a Mutator using the given calculator.
func NewMutator(calc *Calculator) *Mutator {
	return &Mutator{calc: calc}
}

// Apply applies one field edit against the current reference snapshot.
// Reference-bearing fields take entity IDs as the new value; numeric fields
// keep the raw text for display and compute on the parsed value.
func (m *Mutator) Apply(row *TimeEntryRow, field Field, value string, set *refdata.Set) {
	switch field {
	case FieldEmployee:
		m.applyEmployee(row, value, set)
	case FieldCategory:
		m.applyCategory(row, value, set)
	case FieldHours:
		row.Hours = value
		m.calc.Recalculate(row)
	case FieldMileage:
		row.Mileage = value
		m.calc.Recalculate(row)
	case FieldProperty:
		m.applyProperty(row, value, set)
	case FieldDate:
		row.Date = value
	case FieldNotes:
		row.Notes = value
	}
	Revalidate(row, set)
}

func (m *Mutator) applyEmployee(row *TimeEntryRow, value string, set *refdata.Set) {
	id, err := uuid.Parse(value)
	if err == nil {
		if employee, ok := set.EmployeeByID(id); ok {
			row.EmployeeID = employee.ID
			row.EmployeeName = employee.Name
			row.Rate = employee.Rate
			m.calc.Recalculate(row)
			return
		}
	}
	row.EmployeeID = uuid.Nil
	row.EmployeeName = ""
	row.Rate = decimal.Zero
	m.calc.Recalculate(row)
}

func (m *Mutator) applyCategory(row *TimeEntryRow, value string, set *refdata.Set) {
	id, err := uuid.Parse(value)
	if err == nil {
		if account, ok := set.AccountByID(id); ok {
			row.BillingAccountID = account.ID
			row.CategoryName = account.Name
			row.BillingRate = account.Rate
			m.calc.Recalculate(row)
			return
		}
	}
	clearAccount(row)
	m.calc.Recalculate(row)
}

func (m *Mutator) applyProperty(row *TimeEntryRow, value string, set *refdata.Set) {
	if groupID, ok := GroupIDFromRef(value); ok {
		group, exists := set.GroupByID(groupID)
		if !exists {
			clearProperty(row)
			m.calc.Recalculate(row)
			return
		}
		row.PropertyRef = GroupRef(group.ID)
		row.PropertyName = group.Name
		// Groups carry no single owning entity.
		row.EntityID = uuid.Nil
		row.EntityName = ""
		if row.BillingAccountID != uuid.Nil && !group.Allows(row.BillingAccountID) {
			clearAccount(row)
		}
		m.calc.Recalculate(row)
		return
	}

	if propID, ok := PropertyIDFromRef(value); ok {
		if prop, exists := set.PropertyByID(propID); exists {
			row.PropertyRef = PropertyRefFor(prop.ID)
			row.PropertyName = prop.Name
			row.EntityID = prop.EntityID
			row.EntityName = prop.EntityName
			m.calc.Recalculate(row)
			return
		}
	}
	clearProperty(row)
	m.calc.Recalculate(row)
}

func clearAccount(row *TimeEntryRow) {
	row.BillingAccountID = uuid.Nil
	row.CategoryName = ""
	row.BillingRate = decimal.Zero
}

func clearProperty(row *TimeEntryRow) {
	row.PropertyRef = ""
	row.PropertyName = ""
	row.EntityID = uuid.Nil
	row.EntityName = ""
}
