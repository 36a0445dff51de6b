package timesheet

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propertyops/billback/internal/domain/refdata"
)

// Revalidate re-derives the row's IsError flag from ID-based lookups against
// the given reference snapshot. Once a row carries concrete IDs, validity
// tracks ID existence, not name strings: a row becomes invalid when a
// reference it points at disappears from a freshly loaded collection, even
// though nothing in the row itself changed.
func Revalidate(row *TimeEntryRow, set *refdata.Set) {
	row.IsError = !propertyValid(row, set) ||
		!accountValid(row, set) ||
		!employeeValid(row, set)
}

func propertyValid(row *TimeEntryRow, set *refdata.Set) bool {
	if row.PropertyRef == "" {
		return false
	}
	if groupID, ok := GroupIDFromRef(row.PropertyRef); ok {
		_, exists := set.GroupByID(groupID)
		return exists
	}
	propID, ok := PropertyIDFromRef(row.PropertyRef)
	if !ok {
		return false
	}
	_, exists := set.PropertyByID(propID)
	return exists
}

func accountValid(row *TimeEntryRow, set *refdata.Set) bool {
	if row.BillingAccountID == uuid.Nil {
		return false
	}
	if _, exists := set.AccountByID(row.BillingAccountID); !exists {
		return false
	}
	if groupID, ok := GroupIDFromRef(row.PropertyRef); ok {
		group, exists := set.GroupByID(groupID)
		if !exists {
			return false
		}
		return group.Allows(row.BillingAccountID)
	}
	return true
}

func employeeValid(row *TimeEntryRow, set *refdata.Set) bool {
	if row.EmployeeID == uuid.Nil {
		return false
	}
	_, exists := set.EmployeeByID(row.EmployeeID)
	return exists
}

// Refresh re-resolves a row by ID against freshly loaded reference data:
// names and rates are updated from the current collections for every ID that
// still exists, totals are recomputed, and validity is re-derived. Rows loaded
// from a persisted snapshot pass through here because references drift between
// sessions.
func Refresh(row *TimeEntryRow, set *refdata.Set, calc *Calculator) {
	if row.EmployeeID != uuid.Nil {
		if employee, ok := set.EmployeeByID(row.EmployeeID); ok {
			row.EmployeeName = employee.Name
			row.Rate = employee.Rate
		}
	}
	if groupID, ok := GroupIDFromRef(row.PropertyRef); ok {
		if group, exists := set.GroupByID(groupID); exists {
			row.PropertyName = group.Name
			row.EntityID = uuid.Nil
			row.EntityName = ""
		}
	} else if propID, ok := PropertyIDFromRef(row.PropertyRef); ok {
		if prop, exists := set.PropertyByID(propID); exists {
			row.PropertyName = prop.Name
			row.EntityID = prop.EntityID
			row.EntityName = prop.EntityName
		}
	}
	if row.BillingAccountID != uuid.Nil {
		if account, ok := set.AccountByID(row.BillingAccountID); ok {
			row.CategoryName = account.Name
			row.BillingRate = account.Rate
		} else {
			row.BillingRate = decimal.Zero
		}
	}
	calc.Recalculate(row)
	Revalidate(row, set)
}
