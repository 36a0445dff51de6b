package timesheet

import (
	"github.com/google/uuid"
	"github.com/propertyops/billback/internal/domain/refdata"
)

// Resolver maps a CanonicalTimeRecord's raw names onto concrete reference
// IDs and produces a fully derived TimeEntryRow. Resolution is deterministic:
// identical inputs always yield identical output.
type Resolver struct {
	calc *Calculator
}

// NewResolver creates a Resolver using the given calculator.
func NewResolver(calc *Calculator) *Resolver {
	return &Resolver{calc: calc}
}

// Resolve resolves a single record against the reference snapshot.
//
// Property group matches take precedence over individual properties. A billing
// account charged against a group must be on the group's allow-list; otherwise
// the row is flagged invalid but the match itself is kept so the user can see
// what was intended.
func (r *Resolver) Resolve(rec CanonicalTimeRecord, set *refdata.Set) *TimeEntryRow {
	row := &TimeEntryRow{
		ID:           uuid.New(),
		Date:         rec.Date,
		Hours:        rec.Hours.StringFixed(2),
		Notes:        rec.Notes,
		SourceFormat: rec.SourceFormat,
	}
	if !rec.Mileage.IsZero() {
		row.Mileage = rec.Mileage.String()
	}

	group, groupMatched := set.GroupByName(rec.PropertyName)
	var propMatched bool
	if groupMatched {
		row.PropertyRef = GroupRef(group.ID)
		row.PropertyName = group.Name
	} else {
		var prop *refdata.Property
		prop, propMatched = set.PropertyByName(rec.PropertyName)
		if propMatched {
			row.PropertyRef = PropertyRefFor(prop.ID)
			row.PropertyName = prop.Name
			row.EntityID = prop.EntityID
			row.EntityName = prop.EntityName
		} else {
			row.PropertyName = NotFoundLabel(rec.PropertyName)
		}
	}

	account, accountMatched := set.AccountByName(rec.CategoryName)
	validAccount := true
	if accountMatched {
		if groupMatched && !group.Allows(account.ID) {
			validAccount = false
		}
		row.BillingAccountID = account.ID
		row.BillingRate = account.Rate
	}
	if accountMatched && validAccount {
		row.CategoryName = account.Name
	} else {
		// Raw text preserved verbatim so the user can see and fix the typo.
		row.CategoryName = rec.CategoryName
	}

	employee, employeeMatched := set.EmployeeByName(rec.EmployeeName)
	if employeeMatched {
		row.EmployeeID = employee.ID
		row.EmployeeName = employee.Name
		row.Rate = employee.Rate
	} else {
		row.EmployeeName = NotFoundLabel(rec.EmployeeName)
	}

	r.calc.Recalculate(row)

	row.IsError = (!groupMatched && !propMatched) ||
		!accountMatched ||
		!employeeMatched ||
		!validAccount

	return row
}

// ResolveAll resolves a batch of records in order.
func (r *Resolver) ResolveAll(records []CanonicalTimeRecord, set *refdata.Set) []*TimeEntryRow {
	rows := make([]*TimeEntryRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, r.Resolve(rec, set))
	}
	return rows
}
