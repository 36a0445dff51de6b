// Package timesheet implements the billback reconciliation engine: it
// resolves normalized time entry records against the reference collections,
// derives the four monetary totals per row, keeps each row's validity flag in
// sync after every mutation, and maintains the in-memory working set the
// back-office edits before saving a draft or committing an invoice.
package timesheet
