// Package timesheetapp orchestrates the billback engine over its external
// collaborators: the reference data provider, the persistence gateway and the
// raw file normalizer.
package timesheetapp

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	ingestapp "github.com/propertyops/billback/internal/application/ingest"
	"github.com/propertyops/billback/internal/domain/refdata"
	"github.com/propertyops/billback/internal/domain/shared"
	"github.com/propertyops/billback/internal/domain/timesheet"
	"github.com/propertyops/billback/internal/infrastructure/ingest"
)

// PersistenceGateway stores draft snapshots and committed invoices. The
// engine never manages transaction semantics itself; it only tracks whether
// the working set has unsaved changes.
type PersistenceGateway interface {
	// LoadDraft returns the saved rows for a period, or nil when no draft exists.
	LoadDraft(ctx context.Context, periodID string) ([]*timesheet.TimeEntryRow, error)
	SaveDraft(ctx context.Context, periodID string, rows []*timesheet.TimeEntryRow) error
	CommitInvoice(ctx context.Context, periodID string, rows []*timesheet.TimeEntryRow) error
}

// Service is the application entry point for one billback working set. Every
// mutation runs to completion under the service mutex, so no two edits ever
// interleave on the same row; the only concurrency hazard left is a
// late-arriving load result, handled by a generation check rather than
// locking the load itself.
type Service struct {
	provider   refdata.Provider
	gateway    PersistenceGateway
	normalizer *ingestapp.Normalizer
	calc       *timesheet.Calculator
	resolver   *timesheet.Resolver
	mutator    *timesheet.Mutator
	logger     *zap.Logger

	mu         sync.Mutex
	dataset    *timesheet.Dataset
	refs       *refdata.Set
	period     string
	generation uint64
}

// NewService creates a Service. The reference snapshot starts empty; call
// ReloadReferenceData before resolving anything meaningful.
func NewService(
	provider refdata.Provider,
	gateway PersistenceGateway,
	calc *timesheet.Calculator,
	logger *zap.Logger,
) *Service {
	return &Service{
		provider:   provider,
		gateway:    gateway,
		normalizer: ingestapp.NewNormalizer(),
		calc:       calc,
		resolver:   timesheet.NewResolver(calc),
		mutator:    timesheet.NewMutator(calc),
		logger:     logger,
		dataset:    timesheet.NewDataset(),
		refs:       refdata.EmptySet(),
	}
}

// Period returns the active billing period.
func (s *Service) Period() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.period
}

// HasUnsavedChanges reports whether the working set differs from the last
// successful persist.
func (s *Service) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataset.HasUnsavedChanges()
}

// ReloadReferenceData fetches all four reference collections and re-resolves
// every row by ID against the fresh snapshot. A failed collection is treated
// as empty: rows pointing into it flip invalid, which deliberately blocks
// invoicing rather than invoicing against incomplete reference data.
func (s *Service) ReloadReferenceData(ctx context.Context) {
	employees, err := s.provider.FetchEmployees(ctx)
	if err != nil {
		s.logger.Warn("employee fetch failed, treating collection as empty", zap.Error(err))
		employees = nil
	}
	properties, err := s.provider.FetchProperties(ctx)
	if err != nil {
		s.logger.Warn("property fetch failed, treating collection as empty", zap.Error(err))
		properties = nil
	}
	groups, err := s.provider.FetchPropertyGroups(ctx)
	if err != nil {
		s.logger.Warn("property group fetch failed, treating collection as empty", zap.Error(err))
		groups = nil
	}
	accounts, err := s.provider.FetchBillingAccounts(ctx)
	if err != nil {
		s.logger.Warn("billing account fetch failed, treating collection as empty", zap.Error(err))
		accounts = nil
	}

	set := refdata.NewSet(employees, properties, groups, accounts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs = set
	for _, row := range s.dataset.Rows() {
		timesheet.Refresh(row, s.refs, s.calc)
	}
}

// References returns the current reference snapshot.
func (s *Service) References() *refdata.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs
}

// Ingest normalizes and resolves a raw batch, replacing the working set. A
// layout mismatch fails the whole batch; nothing is partially ingested.
func (s *Service) Ingest(ctx context.Context, periodID string, raw []ingest.RawRow) ([]*timesheet.TimeEntryRow, error) {
	records, err := s.normalizer.Normalize(raw)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.period = periodID
	s.generation++
	rows := s.resolver.ResolveAll(records, s.refs)
	s.dataset.ReplaceAll(rows)
	s.logger.Info("ingested time entry batch",
		zap.String("period", periodID),
		zap.Int("rows", len(rows)))
	return rows, nil
}

// SwitchPeriod loads the draft for a period and makes it active. If another
// switch happens while this load is in flight, the stale result is discarded
// on completion (last request wins) and ErrSupersededLoad is returned. The
// period only changes together with the working set, in the same critical
// section: a failed load leaves both pointing at the previous period.
func (s *Service) SwitchPeriod(ctx context.Context, periodID string) ([]*timesheet.TimeEntryRow, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	rows, err := s.gateway.LoadDraft(ctx, periodID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Info("discarding superseded draft load", zap.String("period", periodID))
		return nil, shared.ErrSupersededLoad
	}
	if rows == nil {
		rows = []*timesheet.TimeEntryRow{}
	}
	// References drift between sessions: re-resolve the snapshot by ID.
	for _, row := range rows {
		timesheet.Refresh(row, s.refs, s.calc)
	}
	s.period = periodID
	s.dataset.ReplaceAll(rows)
	s.dataset.MarkSaved()
	return rows, nil
}

// Rows returns the rows passing the current filters.
func (s *Service) Rows() []*timesheet.TimeEntryRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataset.Visible()
}

// SetFilter replaces the active row filters.
func (s *Service) SetFilter(f timesheet.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset.SetFilter(f)
}

// AddRow prepends a blank row to the working set.
func (s *Service) AddRow() *timesheet.TimeEntryRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataset.AddBlank()
}

// DeleteRow removes a row by ID.
func (s *Service) DeleteRow(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dataset.Delete(id) {
		return shared.ErrNotFound
	}
	return nil
}

// EditRow applies a single-field edit and returns the updated row. Edits are
// never rejected; invalid states surface only through the row's IsError flag.
func (s *Service) EditRow(id uuid.UUID, field timesheet.Field, value string) (*timesheet.TimeEntryRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.dataset.Find(id)
	if !ok {
		return nil, shared.ErrNotFound
	}
	s.mutator.Apply(row, field, value, s.refs)
	s.dataset.MarkDirty()
	return row, nil
}

// SaveDraft persists the working set regardless of validation state. The
// dirty flag clears only on success; on failure the working set is untouched
// and still marked unsaved.
func (s *Service) SaveDraft(ctx context.Context) error {
	s.mu.Lock()
	periodID := s.period
	// Snapshot under the lock: the gateway reads row fields outside it, and
	// concurrent edits must not tear the persisted rows.
	rows := s.dataset.Snapshot()
	s.mu.Unlock()

	if err := s.gateway.SaveDraft(ctx, periodID, rows); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset.MarkSaved()
	s.logger.Info("draft saved", zap.String("period", periodID), zap.Int("rows", len(rows)))
	return nil
}

// Commit invoices the working set. Every row must resolve cleanly; a single
// invalid row blocks the commit.
func (s *Service) Commit(ctx context.Context) (*CommitSummary, error) {
	s.mu.Lock()
	if !s.dataset.AllValid() {
		s.mu.Unlock()
		return nil, shared.ErrRowsInvalid
	}
	periodID := s.period
	rows := s.dataset.Snapshot()
	refs := s.refs
	s.mu.Unlock()

	if err := s.gateway.CommitInvoice(ctx, periodID, rows); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset.MarkSaved()
	summary := Summarize(periodID, rows, refs)
	s.logger.Info("invoice committed",
		zap.String("period", periodID),
		zap.Int("rows", len(rows)),
		zap.String("billed_back_total", summary.BilledBackTotal.StringFixed(2)))
	return summary, nil
}
