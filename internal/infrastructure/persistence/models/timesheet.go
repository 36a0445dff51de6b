package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propertyops/billback/internal/domain/timesheet"
)

// DraftRowModel is the persistence model for one row of a saved draft.
// Unresolved references persist as the zero UUID, matching the domain row.
type DraftRowModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	PeriodID string    `gorm:"type:varchar(20);not null;index"`
	// Position preserves dataset ordering across save and load.
	Position int `gorm:"not null"`

	RowDate      string    `gorm:"type:varchar(10);column:row_date"`
	EmployeeID   uuid.UUID `gorm:"type:uuid"`
	EmployeeName string    `gorm:"type:varchar(200)"`

	PropertyRef  string    `gorm:"type:varchar(50)"`
	PropertyName string    `gorm:"type:varchar(200)"`
	EntityID     uuid.UUID `gorm:"type:uuid"`
	EntityName   string    `gorm:"type:varchar(200)"`

	BillingAccountID uuid.UUID `gorm:"type:uuid"`
	CategoryName     string    `gorm:"type:varchar(200)"`

	Rate        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BillingRate decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	Hours   string `gorm:"type:varchar(20)"`
	Mileage string `gorm:"type:varchar(20)"`
	Notes   string `gorm:"type:text"`

	SourceFormat string `gorm:"type:varchar(20)"`

	Total        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BillingTotal decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MileageTotal decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	JobTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	IsError bool `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DraftRowModel) TableName() string {
	return "draft_rows"
}

// ToDomain converts the persistence model to a domain TimeEntryRow.
func (m *DraftRowModel) ToDomain() *timesheet.TimeEntryRow {
	return &timesheet.TimeEntryRow{
		ID:               m.ID,
		Date:             m.RowDate,
		EmployeeID:       m.EmployeeID,
		EmployeeName:     m.EmployeeName,
		PropertyRef:      m.PropertyRef,
		PropertyName:     m.PropertyName,
		EntityID:         m.EntityID,
		EntityName:       m.EntityName,
		BillingAccountID: m.BillingAccountID,
		CategoryName:     m.CategoryName,
		Rate:             m.Rate,
		BillingRate:      m.BillingRate,
		Hours:            m.Hours,
		Mileage:          m.Mileage,
		Notes:            m.Notes,
		SourceFormat:     timesheet.SourceFormat(m.SourceFormat),
		Total:            m.Total,
		BillingTotal:     m.BillingTotal,
		MileageTotal:     m.MileageTotal,
		JobTotal:         m.JobTotal,
		IsError:          m.IsError,
	}
}

// FromDomain populates the model from a domain TimeEntryRow.
func (m *DraftRowModel) FromDomain(periodID string, position int, r *timesheet.TimeEntryRow) {
	m.ID = r.ID
	m.PeriodID = periodID
	m.Position = position
	m.RowDate = r.Date
	m.EmployeeID = r.EmployeeID
	m.EmployeeName = r.EmployeeName
	m.PropertyRef = r.PropertyRef
	m.PropertyName = r.PropertyName
	m.EntityID = r.EntityID
	m.EntityName = r.EntityName
	m.BillingAccountID = r.BillingAccountID
	m.CategoryName = r.CategoryName
	m.Rate = r.Rate
	m.BillingRate = r.BillingRate
	m.Hours = r.Hours
	m.Mileage = r.Mileage
	m.Notes = r.Notes
	m.SourceFormat = string(r.SourceFormat)
	m.Total = r.Total
	m.BillingTotal = r.BillingTotal
	m.MileageTotal = r.MileageTotal
	m.JobTotal = r.JobTotal
	m.IsError = r.IsError
}

// InvoiceModel is the header row of a committed billing period.
type InvoiceModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PeriodID   string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	RowCount   int             `gorm:"not null"`
	GrandTotal decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt  time.Time       `gorm:"not null"`

	Lines []InvoiceLineModel `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceLineModel is one immutable line of a committed invoice.
type InvoiceLineModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index"`
	Position  int       `gorm:"not null"`

	RowDate      string    `gorm:"type:varchar(10);column:row_date"`
	EmployeeID   uuid.UUID `gorm:"type:uuid"`
	EmployeeName string    `gorm:"type:varchar(200)"`

	PropertyRef  string    `gorm:"type:varchar(50)"`
	PropertyName string    `gorm:"type:varchar(200)"`
	EntityID     uuid.UUID `gorm:"type:uuid"`
	EntityName   string    `gorm:"type:varchar(200)"`

	BillingAccountID uuid.UUID `gorm:"type:uuid"`
	CategoryName     string    `gorm:"type:varchar(200)"`

	Rate        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BillingRate decimal.Decimal `gorm:"type:decimal(18,4);not null"`

	Hours   string `gorm:"type:varchar(20)"`
	Mileage string `gorm:"type:varchar(20)"`
	Notes   string `gorm:"type:text"`

	SourceFormat string `gorm:"type:varchar(20)"`

	Total        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BillingTotal decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MileageTotal decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	JobTotal     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// FromDomain populates the line from a committed TimeEntryRow.
func (m *InvoiceLineModel) FromDomain(invoiceID uuid.UUID, position int, r *timesheet.TimeEntryRow) {
	m.ID = uuid.New()
	m.InvoiceID = invoiceID
	m.Position = position
	m.RowDate = r.Date
	m.EmployeeID = r.EmployeeID
	m.EmployeeName = r.EmployeeName
	m.PropertyRef = r.PropertyRef
	m.PropertyName = r.PropertyName
	m.EntityID = r.EntityID
	m.EntityName = r.EntityName
	m.BillingAccountID = r.BillingAccountID
	m.CategoryName = r.CategoryName
	m.Rate = r.Rate
	m.BillingRate = r.BillingRate
	m.Hours = r.Hours
	m.Mileage = r.Mileage
	m.Notes = r.Notes
	m.SourceFormat = string(r.SourceFormat)
	m.Total = r.Total
	m.BillingTotal = r.BillingTotal
	m.MileageTotal = r.MileageTotal
	m.JobTotal = r.JobTotal
}
