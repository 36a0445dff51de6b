package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propertyops/billback/internal/domain/timesheet"
)

func TestGormTimesheetGateway_LoadDraft(t *testing.T) {
	t.Run("returns nil when no draft exists", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		gateway := NewGormTimesheetGateway(db)

		mock.ExpectQuery(`SELECT \* FROM "draft_rows" WHERE period_id = \$1 ORDER BY position`).
			WithArgs("2024-01").
			WillReturnRows(sqlmock.NewRows([]string{"id", "period_id", "position"}))

		rows, err := gateway.LoadDraft(context.Background(), "2024-01")
		require.NoError(t, err)
		assert.Nil(t, rows)
	})

	t.Run("returns rows in saved order", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		gateway := NewGormTimesheetGateway(db)

		firstID := uuid.New()
		secondID := uuid.New()
		employeeID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "draft_rows" WHERE period_id = \$1 ORDER BY position`).
			WithArgs("2024-01").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "period_id", "position", "row_date",
				"employee_id", "employee_name", "hours", "source_format", "is_error",
			}).
				AddRow(firstID, "2024-01", 0, "2024-01-15", employeeID, "Jane Smith", "8", "MANUAL", false).
				AddRow(secondID, "2024-01", 1, "2024-01-16", employeeID, "Jane Smith", "4.5", "MANUAL", false))

		rows, err := gateway.LoadDraft(context.Background(), "2024-01")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, firstID, rows[0].ID)
		assert.Equal(t, "2024-01-15", rows[0].Date)
		assert.Equal(t, "Jane Smith", rows[0].EmployeeName)
		assert.Equal(t, timesheet.SourceFormatManual, rows[0].SourceFormat)
		assert.Equal(t, "4.5", rows[1].Hours)
	})
}

func TestGormTimesheetGateway_SaveDraft(t *testing.T) {
	t.Run("replaces existing draft atomically", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		gateway := NewGormTimesheetGateway(db)

		row := timesheet.NewBlankRow()
		row.Date = "2024-01-15"
		row.Hours = "8"

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "draft_rows" WHERE period_id = \$1`).
			WithArgs("2024-01").
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectExec(`INSERT INTO "draft_rows"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := gateway.SaveDraft(context.Background(), "2024-01", []*timesheet.TimeEntryRow{row})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty row set clears the draft", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		gateway := NewGormTimesheetGateway(db)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "draft_rows" WHERE period_id = \$1`).
			WithArgs("2024-01").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := gateway.SaveDraft(context.Background(), "2024-01", nil)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTimesheetGateway_CommitInvoice(t *testing.T) {
	t.Run("rejects empty commit", func(t *testing.T) {
		db, _, mockDB := newMockDB(t)
		defer mockDB.Close()
		gateway := NewGormTimesheetGateway(db)

		err := gateway.CommitInvoice(context.Background(), "2024-01", nil)
		assert.Error(t, err)
	})

	t.Run("writes header, lines and clears draft", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		gateway := NewGormTimesheetGateway(db)

		row := timesheet.NewBlankRow()
		row.Date = "2024-01-15"
		row.JobTotal = decimal.RequireFromString("160.00")
		row.IsError = false

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO "invoices"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO "invoice_lines"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "draft_rows" WHERE period_id = \$1`).
			WithArgs("2024-01").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := gateway.CommitInvoice(context.Background(), "2024-01", []*timesheet.TimeEntryRow{row})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
