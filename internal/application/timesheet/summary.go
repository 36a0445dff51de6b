package timesheetapp

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propertyops/billback/internal/domain/refdata"
	"github.com/propertyops/billback/internal/domain/timesheet"
)

// EntitySubtotal is the billable amount accumulated for one legal entity.
type EntitySubtotal struct {
	EntityID   uuid.UUID       `json:"entity_id"`
	EntityName string          `json:"entity_name"`
	JobTotal   decimal.Decimal `json:"job_total"`
}

// AccountSubtotal is the billable amount accumulated for one billing account.
type AccountSubtotal struct {
	BillingAccountID uuid.UUID       `json:"billing_account_id"`
	AccountName      string          `json:"account_name"`
	IsBilledBack     bool            `json:"is_billed_back"`
	JobTotal         decimal.Decimal `json:"job_total"`
}

// CommitSummary aggregates a committed invoice for the back office: the job
// total per entity and per billing account, plus the overall billed-back
// amount. Only accounts flagged billed-back contribute to BilledBackTotal.
type CommitSummary struct {
	PeriodID        string            `json:"period_id"`
	RowCount        int               `json:"row_count"`
	GrandTotal      decimal.Decimal   `json:"grand_total"`
	BilledBackTotal decimal.Decimal   `json:"billed_back_total"`
	ByEntity        []EntitySubtotal  `json:"by_entity"`
	ByAccount       []AccountSubtotal `json:"by_account"`
}

// Summarize builds the commit summary for a set of valid rows. Subtotal order
// follows first appearance in the row set.
func Summarize(periodID string, rows []*timesheet.TimeEntryRow, refs *refdata.Set) *CommitSummary {
	summary := &CommitSummary{
		PeriodID:        periodID,
		RowCount:        len(rows),
		GrandTotal:      decimal.Zero,
		BilledBackTotal: decimal.Zero,
	}

	entityIdx := make(map[uuid.UUID]int)
	accountIdx := make(map[uuid.UUID]int)

	for _, row := range rows {
		summary.GrandTotal = summary.GrandTotal.Add(row.JobTotal)

		if row.EntityID != uuid.Nil {
			i, ok := entityIdx[row.EntityID]
			if !ok {
				i = len(summary.ByEntity)
				entityIdx[row.EntityID] = i
				summary.ByEntity = append(summary.ByEntity, EntitySubtotal{
					EntityID:   row.EntityID,
					EntityName: row.EntityName,
					JobTotal:   decimal.Zero,
				})
			}
			summary.ByEntity[i].JobTotal = summary.ByEntity[i].JobTotal.Add(row.JobTotal)
		}

		if row.BillingAccountID != uuid.Nil {
			i, ok := accountIdx[row.BillingAccountID]
			if !ok {
				i = len(summary.ByAccount)
				accountIdx[row.BillingAccountID] = i
				sub := AccountSubtotal{
					BillingAccountID: row.BillingAccountID,
					AccountName:      row.CategoryName,
					JobTotal:         decimal.Zero,
				}
				if account, exists := refs.AccountByID(row.BillingAccountID); exists {
					sub.IsBilledBack = account.IsBilledBack
				}
				summary.ByAccount = append(summary.ByAccount, sub)
			}
			summary.ByAccount[i].JobTotal = summary.ByAccount[i].JobTotal.Add(row.JobTotal)
			if summary.ByAccount[i].IsBilledBack {
				summary.BilledBackTotal = summary.BilledBackTotal.Add(row.JobTotal)
			}
		}
	}
	return summary
}
