package dto

import (
	"github.com/google/uuid"

	timesheetapp "github.com/propertyops/billback/internal/application/timesheet"
	"github.com/propertyops/billback/internal/domain/timesheet"
)

// RowResponse is the wire representation of one working-set row. Monetary
// values are fixed two-decimal strings; hours and mileage keep their raw
// display text.
type RowResponse struct {
	ID   string `json:"id"`
	Date string `json:"date"`

	EmployeeID   string `json:"employee_id,omitempty"`
	EmployeeName string `json:"employee_name"`

	PropertyRef  string `json:"property_ref,omitempty"`
	PropertyName string `json:"property_name"`
	EntityID     string `json:"entity_id,omitempty"`
	EntityName   string `json:"entity_name"`

	BillingAccountID string `json:"billing_account_id,omitempty"`
	CategoryName     string `json:"category_name"`

	Rate        string `json:"rate"`
	BillingRate string `json:"billing_rate"`

	Hours   string `json:"hours"`
	Mileage string `json:"mileage"`
	Notes   string `json:"notes"`

	SourceFormat string `json:"source_format"`

	Total        string `json:"total"`
	BillingTotal string `json:"billing_total"`
	MileageTotal string `json:"mileage_total"`
	JobTotal     string `json:"job_total"`

	IsError bool `json:"is_error"`
}

// NewRowResponse converts a domain row to its wire form.
func NewRowResponse(r *timesheet.TimeEntryRow) RowResponse {
	return RowResponse{
		ID:               r.ID.String(),
		Date:             r.Date,
		EmployeeID:       uuidOrEmpty(r.EmployeeID),
		EmployeeName:     r.EmployeeName,
		PropertyRef:      r.PropertyRef,
		PropertyName:     r.PropertyName,
		EntityID:         uuidOrEmpty(r.EntityID),
		EntityName:       r.EntityName,
		BillingAccountID: uuidOrEmpty(r.BillingAccountID),
		CategoryName:     r.CategoryName,
		Rate:             r.Rate.StringFixed(2),
		BillingRate:      r.BillingRate.StringFixed(2),
		Hours:            r.Hours,
		Mileage:          r.Mileage,
		Notes:            r.Notes,
		SourceFormat:     string(r.SourceFormat),
		Total:            r.Total.StringFixed(2),
		BillingTotal:     r.BillingTotal.StringFixed(2),
		MileageTotal:     r.MileageTotal.StringFixed(2),
		JobTotal:         r.JobTotal.StringFixed(2),
		IsError:          r.IsError,
	}
}

// NewRowListResponse converts a slice of domain rows.
func NewRowListResponse(rows []*timesheet.TimeEntryRow) []RowResponse {
	out := make([]RowResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, NewRowResponse(r))
	}
	return out
}

func uuidOrEmpty(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

// WorkingSetResponse wraps the visible rows with dataset state.
type WorkingSetResponse struct {
	Period            string        `json:"period"`
	Rows              []RowResponse `json:"rows"`
	AllValid          bool          `json:"all_valid"`
	HasUnsavedChanges bool          `json:"has_unsaved_changes"`
}

// EditRowRequest is a single-field mutation.
type EditRowRequest struct {
	Field string `json:"field" binding:"required,oneof=employee category hours mileage property date notes"`
	// Value carries an entity ID for reference fields and raw text otherwise.
	// Empty clears the field.
	Value string `json:"value"`
}

// RowFilterRequest carries the dataset filters as query parameters.
type RowFilterRequest struct {
	EmployeeID       string `form:"employee_id" binding:"omitempty,uuid"`
	PropertyRef      string `form:"property_ref"`
	EntityID         string `form:"entity_id" binding:"omitempty,uuid"`
	BillingAccountID string `form:"billing_account_id" binding:"omitempty,uuid"`
}

// ToDomain converts the request to a domain filter. Parse failures were
// already rejected by binding; remaining fields parse cleanly.
func (r RowFilterRequest) ToDomain() timesheet.Filter {
	f := timesheet.Filter{PropertyRef: r.PropertyRef}
	if id, err := uuid.Parse(r.EmployeeID); err == nil {
		f.EmployeeID = id
	}
	if id, err := uuid.Parse(r.EntityID); err == nil {
		f.EntityID = id
	}
	if id, err := uuid.Parse(r.BillingAccountID); err == nil {
		f.BillingAccountID = id
	}
	return f
}

// SubtotalResponse is one per-entity or per-account subtotal line.
type SubtotalResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Total string `json:"total"`
}

// CommitSummaryResponse is the wire form of a committed invoice summary.
type CommitSummaryResponse struct {
	Period          string             `json:"period"`
	RowCount        int                `json:"row_count"`
	GrandTotal      string             `json:"grand_total"`
	BilledBackTotal string             `json:"billed_back_total"`
	ByEntity        []SubtotalResponse `json:"by_entity"`
	ByAccount       []SubtotalResponse `json:"by_account"`
}

// NewCommitSummaryResponse converts a domain commit summary.
func NewCommitSummaryResponse(s *timesheetapp.CommitSummary) CommitSummaryResponse {
	byEntity := make([]SubtotalResponse, 0, len(s.ByEntity))
	for _, e := range s.ByEntity {
		byEntity = append(byEntity, SubtotalResponse{
			ID:    uuidOrEmpty(e.EntityID),
			Name:  e.EntityName,
			Total: e.JobTotal.StringFixed(2),
		})
	}
	byAccount := make([]SubtotalResponse, 0, len(s.ByAccount))
	for _, a := range s.ByAccount {
		byAccount = append(byAccount, SubtotalResponse{
			ID:    uuidOrEmpty(a.BillingAccountID),
			Name:  a.AccountName,
			Total: a.JobTotal.StringFixed(2),
		})
	}
	return CommitSummaryResponse{
		Period:          s.PeriodID,
		RowCount:        s.RowCount,
		GrandTotal:      s.GrandTotal.StringFixed(2),
		BilledBackTotal: s.BilledBackTotal.StringFixed(2),
		ByEntity:        byEntity,
		ByAccount:       byAccount,
	}
}
