// Package refdata holds the externally sourced reference collections used to
// resolve raw time entry text into stable identifiers: employees, properties,
// property groups and billing accounts.
package refdata

import (
	"context"

	"github.com/google/uuid"
	"github.com/propertyops/billback/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Employee is a worker whose time is billed back to properties.
type Employee struct {
	shared.BaseEntity
	Name string
	// Rate is the raw labor cost per hour.
	Rate decimal.Decimal
}

// Entity is the legal entity that owns one or more properties. Invoices are
// ultimately grouped by entity.
type Entity struct {
	shared.BaseEntity
	Name string
}

// Property is an individual managed property belonging to an entity.
type Property struct {
	shared.BaseEntity
	Name       string
	EntityID   uuid.UUID
	EntityName string
}

// PropertyGroup is a named set of properties sharing a fixed allow-list of
// billing accounts. Groups carry no single owning entity.
type PropertyGroup struct {
	shared.BaseEntity
	Name string
	// BillingAccounts is the allow-list of billing account IDs that may be
	// charged against this group.
	BillingAccounts []uuid.UUID
}

// Allows reports whether the given billing account is on the group's allow-list.
func (g *PropertyGroup) Allows(accountID uuid.UUID) bool {
	for _, id := range g.BillingAccounts {
		if id == accountID {
			return true
		}
	}
	return false
}

// BillingAccount is a GL-coded cost category carrying its own billing rate and
// an is-billed-back flag.
type BillingAccount struct {
	shared.BaseEntity
	Name string
	Code string
	// Rate is the billable rate per hour. Zero means the category bills at raw
	// labor cost.
	Rate         decimal.Decimal
	IsBilledBack bool
}

// Provider fetches the reference collections from their authoritative source.
// Each fetch is independent; a failed collection is treated as empty by callers.
type Provider interface {
	FetchEmployees(ctx context.Context) ([]Employee, error)
	FetchProperties(ctx context.Context) ([]Property, error)
	FetchPropertyGroups(ctx context.Context) ([]PropertyGroup, error)
	FetchBillingAccounts(ctx context.Context) ([]BillingAccount, error)
}
