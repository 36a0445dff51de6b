package refdata

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetNameLookups(t *testing.T) {
	emp := Employee{Name: "Jane Smith", Rate: decimal.RequireFromString("25")}
	emp.ID = uuid.New()
	prop := Property{Name: "Maple Court", EntityID: uuid.New(), EntityName: "Maple LLC"}
	prop.ID = uuid.New()
	grp := PropertyGroup{Name: "Downtown Portfolio"}
	grp.ID = uuid.New()
	acct := BillingAccount{Name: "Maintenance", Rate: decimal.RequireFromString("40"), IsBilledBack: true}
	acct.ID = uuid.New()

	set := NewSet([]Employee{emp}, []Property{prop}, []PropertyGroup{grp}, []BillingAccount{acct})

	t.Run("matches case-insensitively", func(t *testing.T) {
		e, ok := set.EmployeeByName("jane smith")
		require.True(t, ok)
		assert.Equal(t, emp.ID, e.ID)

		p, ok := set.PropertyByName("MAPLE COURT")
		require.True(t, ok)
		assert.Equal(t, prop.ID, p.ID)

		g, ok := set.GroupByName("downtown portfolio")
		require.True(t, ok)
		assert.Equal(t, grp.ID, g.ID)

		a, ok := set.AccountByName("maintenance")
		require.True(t, ok)
		assert.Equal(t, acct.ID, a.ID)
	})

	t.Run("requires exact match, not substring", func(t *testing.T) {
		_, ok := set.PropertyByName("Maple")
		assert.False(t, ok)
	})

	t.Run("finds by ID", func(t *testing.T) {
		e, ok := set.EmployeeByID(emp.ID)
		require.True(t, ok)
		assert.Equal(t, "Jane Smith", e.Name)

		_, ok = set.EmployeeByID(uuid.New())
		assert.False(t, ok)
	})
}

func TestSetFirstMatchWins(t *testing.T) {
	first := Property{Name: "Oak Ridge"}
	first.ID = uuid.New()
	second := Property{Name: "oak ridge"}
	second.ID = uuid.New()

	set := NewSet(nil, []Property{first, second}, nil, nil)

	p, ok := set.PropertyByName("Oak Ridge")
	require.True(t, ok)
	assert.Equal(t, first.ID, p.ID, "first inserted record wins the tie-break")
}

func TestGroupAllows(t *testing.T) {
	allowed := uuid.New()
	grp := PropertyGroup{Name: "Portfolio", BillingAccounts: []uuid.UUID{allowed}}

	assert.True(t, grp.Allows(allowed))
	assert.False(t, grp.Allows(uuid.New()))
}

func TestEmptySet(t *testing.T) {
	set := EmptySet()

	_, ok := set.EmployeeByName("anyone")
	assert.False(t, ok)
	assert.Empty(t, set.Employees())
	assert.Empty(t, set.Accounts())
}
