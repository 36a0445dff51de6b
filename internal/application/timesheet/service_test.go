package timesheetapp

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propertyops/billback/internal/domain/refdata"
	"github.com/propertyops/billback/internal/domain/shared"
	"github.com/propertyops/billback/internal/domain/timesheet"
	"github.com/propertyops/billback/internal/infrastructure/ingest"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fakeProvider serves fixed collections and can be told to fail per collection.
type fakeProvider struct {
	mu            sync.Mutex
	employees     []refdata.Employee
	properties    []refdata.Property
	groups        []refdata.PropertyGroup
	accounts      []refdata.BillingAccount
	failEmployees bool
}

func (p *fakeProvider) FetchEmployees(ctx context.Context) ([]refdata.Employee, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failEmployees {
		return nil, errors.New("upstream unavailable")
	}
	return p.employees, nil
}

func (p *fakeProvider) FetchProperties(ctx context.Context) ([]refdata.Property, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.properties, nil
}

func (p *fakeProvider) FetchPropertyGroups(ctx context.Context) ([]refdata.PropertyGroup, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.groups, nil
}

func (p *fakeProvider) FetchBillingAccounts(ctx context.Context) ([]refdata.BillingAccount, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accounts, nil
}

// fakeGateway records persisted snapshots; loads for blockPeriod park on the
// release channel to simulate a slow in-flight load.
type fakeGateway struct {
	mu          sync.Mutex
	drafts      map[string][]*timesheet.TimeEntryRow
	commits     map[string][]*timesheet.TimeEntryRow
	saveErr     error
	loadErr     error
	blockPeriod string
	loadStarted chan struct{}
	loadRelease chan struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		drafts:  make(map[string][]*timesheet.TimeEntryRow),
		commits: make(map[string][]*timesheet.TimeEntryRow),
	}
}

func (g *fakeGateway) LoadDraft(ctx context.Context, periodID string) ([]*timesheet.TimeEntryRow, error) {
	if periodID == g.blockPeriod && g.loadRelease != nil {
		g.loadStarted <- struct{}{}
		<-g.loadRelease
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.loadErr != nil {
		return nil, g.loadErr
	}
	return g.drafts[periodID], nil
}

func (g *fakeGateway) SaveDraft(ctx context.Context, periodID string, rows []*timesheet.TimeEntryRow) error {
	if g.saveErr != nil {
		return g.saveErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.drafts[periodID] = rows
	return nil
}

func (g *fakeGateway) CommitInvoice(ctx context.Context, periodID string, rows []*timesheet.TimeEntryRow) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.commits[periodID] = rows
	return nil
}

type serviceFixture struct {
	svc      *Service
	provider *fakeProvider
	gateway  *fakeGateway
	employee refdata.Employee
	entity   refdata.Entity
	property refdata.Property
	group    refdata.PropertyGroup
	account  refdata.BillingAccount
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{}

	f.employee = refdata.Employee{Name: "Jane Smith", Rate: dec("20")}
	f.employee.ID = uuid.New()
	f.entity = refdata.Entity{Name: "Maple Holdings LLC"}
	f.entity.ID = uuid.New()
	f.property = refdata.Property{Name: "Maple Court", EntityID: f.entity.ID, EntityName: f.entity.Name}
	f.property.ID = uuid.New()
	f.account = refdata.BillingAccount{Name: "Maintenance", Rate: dec("30"), IsBilledBack: true}
	f.account.ID = uuid.New()
	f.group = refdata.PropertyGroup{Name: "Downtown Portfolio", BillingAccounts: []uuid.UUID{f.account.ID}}
	f.group.ID = uuid.New()

	f.provider = &fakeProvider{
		employees:  []refdata.Employee{f.employee},
		properties: []refdata.Property{f.property},
		groups:     []refdata.PropertyGroup{f.group},
		accounts:   []refdata.BillingAccount{f.account},
	}
	f.gateway = newFakeGateway()
	f.svc = NewService(f.provider, f.gateway, timesheet.NewCalculator(dec("0.655")), zap.NewNop())
	f.svc.ReloadReferenceData(context.Background())
	return f
}

func manualBatch() []ingest.RawRow {
	return []ingest.RawRow{{
		"Employee": "Jane Smith",
		"Date":     "03/15/2024",
		"Minutes":  "120",
		"Task":     "spring cleanup",
		"Property": "Maple Court",
		"Category": "Maintenance",
	}}
}

func TestServiceIngest(t *testing.T) {
	f := newServiceFixture(t)

	rows, err := f.svc.Ingest(context.Background(), "2024-03", manualBatch())

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].IsError)
	assert.Equal(t, "2.00", rows[0].Hours)
	assert.True(t, f.svc.HasUnsavedChanges())
	assert.Equal(t, "2024-03", f.svc.Period())

	t.Run("format error ingests nothing", func(t *testing.T) {
		before := len(f.svc.Rows())
		_, err := f.svc.Ingest(context.Background(), "2024-03", []ingest.RawRow{{"Foo": "bar"}})

		assert.Error(t, err)
		assert.Len(t, f.svc.Rows(), before)
	})
}

func TestServiceEditRow(t *testing.T) {
	f := newServiceFixture(t)
	rows, err := f.svc.Ingest(context.Background(), "2024-03", manualBatch())
	require.NoError(t, err)
	id := rows[0].ID

	row, err := f.svc.EditRow(id, timesheet.FieldHours, "4")

	require.NoError(t, err)
	assert.True(t, row.Total.Equal(dec("80")), "total=%s", row.Total)

	_, err = f.svc.EditRow(uuid.New(), timesheet.FieldHours, "1")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServiceAddAndDeleteRow(t *testing.T) {
	f := newServiceFixture(t)

	row := f.svc.AddRow()
	assert.True(t, row.IsError)
	require.Len(t, f.svc.Rows(), 1)

	require.NoError(t, f.svc.DeleteRow(row.ID))
	assert.ErrorIs(t, f.svc.DeleteRow(row.ID), shared.ErrNotFound)
}

func TestServiceFilters(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.svc.Ingest(context.Background(), "2024-03", manualBatch())
	require.NoError(t, err)
	f.svc.AddRow()

	f.svc.SetFilter(timesheet.Filter{EmployeeID: f.employee.ID})

	require.Len(t, f.svc.Rows(), 1)
	assert.Equal(t, f.employee.ID, f.svc.Rows()[0].EmployeeID)
}

func TestServiceSaveDraft(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.svc.Ingest(context.Background(), "2024-03", manualBatch())
	require.NoError(t, err)

	t.Run("saving is allowed with invalid rows present", func(t *testing.T) {
		f.svc.AddRow()

		require.NoError(t, f.svc.SaveDraft(context.Background()))
		assert.False(t, f.svc.HasUnsavedChanges())
	})

	t.Run("failed save keeps the dirty flag", func(t *testing.T) {
		f.svc.AddRow()
		f.gateway.saveErr = errors.New("connection reset")

		err := f.svc.SaveDraft(context.Background())

		assert.Error(t, err)
		assert.True(t, f.svc.HasUnsavedChanges())
	})
}

func TestServicePersistedRowsAreDetached(t *testing.T) {
	f := newServiceFixture(t)
	rows, err := f.svc.Ingest(context.Background(), "2024-03", manualBatch())
	require.NoError(t, err)
	id := rows[0].ID

	require.NoError(t, f.svc.SaveDraft(context.Background()))
	saved := f.gateway.drafts["2024-03"]
	require.Len(t, saved, 1)

	// The gateway holds copies: edits after the save must not reach them.
	_, err = f.svc.EditRow(id, timesheet.FieldHours, "9")
	require.NoError(t, err)
	assert.Equal(t, "2.00", saved[0].Hours)

	_, err = f.svc.Commit(context.Background())
	require.NoError(t, err)
	committed := f.gateway.commits["2024-03"]
	require.Len(t, committed, 1)

	_, err = f.svc.EditRow(id, timesheet.FieldHours, "1")
	require.NoError(t, err)
	assert.Equal(t, "9", committed[0].Hours)
}

func TestServiceCommit(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.svc.Ingest(context.Background(), "2024-03", manualBatch())
	require.NoError(t, err)

	t.Run("blocked while any row is invalid", func(t *testing.T) {
		blank := f.svc.AddRow()

		_, err := f.svc.Commit(context.Background())

		assert.ErrorIs(t, err, shared.ErrRowsInvalid)
		require.NoError(t, f.svc.DeleteRow(blank.ID))
	})

	t.Run("commits and summarizes valid rows", func(t *testing.T) {
		summary, err := f.svc.Commit(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, summary.RowCount)
		// 2h at billing rate 30.
		assert.True(t, summary.GrandTotal.Equal(dec("60")), "grand=%s", summary.GrandTotal)
		assert.True(t, summary.BilledBackTotal.Equal(dec("60")))
		require.Len(t, summary.ByEntity, 1)
		assert.Equal(t, f.entity.ID, summary.ByEntity[0].EntityID)
		require.Len(t, summary.ByAccount, 1)
		assert.True(t, summary.ByAccount[0].IsBilledBack)
		assert.False(t, f.svc.HasUnsavedChanges())
		assert.Len(t, f.gateway.commits["2024-03"], 1)
	})
}

func TestServiceReloadInvariant(t *testing.T) {
	f := newServiceFixture(t)
	rows, err := f.svc.Ingest(context.Background(), "2024-03", manualBatch())
	require.NoError(t, err)
	require.False(t, rows[0].IsError)

	// The referenced employee disappears upstream.
	f.provider.mu.Lock()
	f.provider.employees = nil
	f.provider.mu.Unlock()

	f.svc.ReloadReferenceData(context.Background())

	assert.True(t, rows[0].IsError, "row flips invalid when its employee vanishes")
	assert.Equal(t, f.employee.ID, rows[0].EmployeeID, "the stored ID is untouched")
}

func TestServiceReferenceFetchFailure(t *testing.T) {
	f := newServiceFixture(t)
	rows, err := f.svc.Ingest(context.Background(), "2024-03", manualBatch())
	require.NoError(t, err)

	f.provider.mu.Lock()
	f.provider.failEmployees = true
	f.provider.mu.Unlock()

	f.svc.ReloadReferenceData(context.Background())

	assert.True(t, rows[0].IsError, "failed collection is treated as empty")
}

func TestServiceSwitchPeriod(t *testing.T) {
	t.Run("loads draft and marks it clean", func(t *testing.T) {
		f := newServiceFixture(t)
		draft := timesheet.NewBlankRow()
		draft.EmployeeID = f.employee.ID
		draft.PropertyRef = timesheet.PropertyRefFor(f.property.ID)
		draft.BillingAccountID = f.account.ID
		draft.Hours = "3"
		f.gateway.drafts["2024-02"] = []*timesheet.TimeEntryRow{draft}

		rows, err := f.svc.SwitchPeriod(context.Background(), "2024-02")

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.False(t, rows[0].IsError, "IDs re-resolve against current references")
		assert.Equal(t, "Jane Smith", rows[0].EmployeeName)
		assert.True(t, rows[0].Total.Equal(dec("60")), "total=%s", rows[0].Total)
		assert.False(t, f.svc.HasUnsavedChanges(), "a freshly loaded draft is clean")
	})

	t.Run("no draft yields an empty working set", func(t *testing.T) {
		f := newServiceFixture(t)

		rows, err := f.svc.SwitchPeriod(context.Background(), "2024-01")

		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("failed load leaves period and working set untouched", func(t *testing.T) {
		f := newServiceFixture(t)
		_, err := f.svc.Ingest(context.Background(), "2024-03", manualBatch())
		require.NoError(t, err)
		f.gateway.loadErr = errors.New("connection refused")

		_, err = f.svc.SwitchPeriod(context.Background(), "2024-04")

		assert.Error(t, err)
		assert.Equal(t, "2024-03", f.svc.Period(), "period stays with the loaded working set")
		require.Len(t, f.svc.Rows(), 1)

		// A save after the failed switch must go to the period the rows
		// actually belong to.
		f.gateway.loadErr = nil
		require.NoError(t, f.svc.SaveDraft(context.Background()))
		assert.Len(t, f.gateway.drafts["2024-03"], 1)
		assert.Empty(t, f.gateway.drafts["2024-04"])
	})

	t.Run("superseded load is discarded, last request wins", func(t *testing.T) {
		f := newServiceFixture(t)
		stale := timesheet.NewBlankRow()
		f.gateway.drafts["2024-01"] = []*timesheet.TimeEntryRow{stale}
		f.gateway.blockPeriod = "2024-01"
		f.gateway.loadStarted = make(chan struct{})
		f.gateway.loadRelease = make(chan struct{})

		done := make(chan error, 1)
		go func() {
			_, err := f.svc.SwitchPeriod(context.Background(), "2024-01")
			done <- err
		}()
		<-f.gateway.loadStarted // the 2024-01 load is now in flight

		// A second switch completes while the first load is still parked.
		_, err := f.svc.SwitchPeriod(context.Background(), "2024-02")
		require.NoError(t, err)

		close(f.gateway.loadRelease)
		assert.ErrorIs(t, <-done, shared.ErrSupersededLoad)
		assert.Empty(t, f.svc.Rows(), "the stale 2024-01 draft was never applied")
	})
}
