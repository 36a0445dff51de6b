package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	timesheetapp "github.com/propertyops/billback/internal/application/timesheet"
	"github.com/propertyops/billback/internal/domain/shared"
	"github.com/propertyops/billback/internal/domain/timesheet"
	"github.com/propertyops/billback/internal/infrastructure/persistence/models"
)

// GormTimesheetGateway persists draft snapshots and committed invoices.
// It implements timesheetapp.PersistenceGateway.
type GormTimesheetGateway struct {
	db *gorm.DB
}

// NewGormTimesheetGateway creates a new GormTimesheetGateway
func NewGormTimesheetGateway(db *gorm.DB) *GormTimesheetGateway {
	return &GormTimesheetGateway{db: db}
}

// LoadDraft returns the saved rows for a period in their saved order, or nil
// when no draft exists for that period.
func (g *GormTimesheetGateway) LoadDraft(ctx context.Context, periodID string) ([]*timesheet.TimeEntryRow, error) {
	var rows []models.DraftRowModel
	if err := g.db.WithContext(ctx).
		Where("period_id = ?", periodID).
		Order("position").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	result := make([]*timesheet.TimeEntryRow, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].ToDomain())
	}
	return result, nil
}

// SaveDraft replaces the period's draft with the given rows. The replace is
// atomic; a failed save leaves the previous draft intact.
func (g *GormTimesheetGateway) SaveDraft(ctx context.Context, periodID string, rows []*timesheet.TimeEntryRow) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("period_id = ?", periodID).Delete(&models.DraftRowModel{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		now := time.Now()
		batch := make([]models.DraftRowModel, len(rows))
		for i, row := range rows {
			batch[i].FromDomain(periodID, i, row)
			batch[i].CreatedAt = now
			batch[i].UpdatedAt = now
		}
		return tx.Create(&batch).Error
	})
}

// CommitInvoice writes an immutable invoice for the period and clears its
// draft. Committing the same period twice fails on the unique period index.
func (g *GormTimesheetGateway) CommitInvoice(ctx context.Context, periodID string, rows []*timesheet.TimeEntryRow) error {
	if len(rows) == 0 {
		return shared.NewDomainError("EMPTY_COMMIT", "cannot commit a period with no rows")
	}

	grandTotal := decimal.Zero
	for _, row := range rows {
		grandTotal = grandTotal.Add(row.JobTotal)
	}

	invoice := models.InvoiceModel{
		ID:         uuid.New(),
		PeriodID:   periodID,
		RowCount:   len(rows),
		GrandTotal: grandTotal,
		CreatedAt:  time.Now(),
	}

	lines := make([]models.InvoiceLineModel, len(rows))
	for i, row := range rows {
		lines[i].FromDomain(invoice.ID, i, row)
	}

	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
		return tx.Where("period_id = ?", periodID).Delete(&models.DraftRowModel{}).Error
	})
}

var _ timesheetapp.PersistenceGateway = (*GormTimesheetGateway)(nil)
