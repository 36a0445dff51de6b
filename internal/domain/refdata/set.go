package refdata

import (
	"strings"

	"github.com/google/uuid"
)

// Set is an immutable snapshot of all four reference collections, indexed for
// name and ID lookups. Name matching is case-insensitive exact match; when two
// records share a case-folded name, the first one in insertion order wins.
type Set struct {
	employees  []Employee
	properties []Property
	groups     []PropertyGroup
	accounts   []BillingAccount

	employeeByName map[string]*Employee
	propertyByName map[string]*Property
	groupByName    map[string]*PropertyGroup
	accountByName  map[string]*BillingAccount

	employeeByID map[uuid.UUID]*Employee
	propertyByID map[uuid.UUID]*Property
	groupByID    map[uuid.UUID]*PropertyGroup
	accountByID  map[uuid.UUID]*BillingAccount
}

// NewSet builds a snapshot over the given collections. Insertion order of each
// slice is preserved as the tie-break order for name resolution.
func NewSet(employees []Employee, properties []Property, groups []PropertyGroup, accounts []BillingAccount) *Set {
	s := &Set{
		employees:      employees,
		properties:     properties,
		groups:         groups,
		accounts:       accounts,
		employeeByName: make(map[string]*Employee, len(employees)),
		propertyByName: make(map[string]*Property, len(properties)),
		groupByName:    make(map[string]*PropertyGroup, len(groups)),
		accountByName:  make(map[string]*BillingAccount, len(accounts)),
		employeeByID:   make(map[uuid.UUID]*Employee, len(employees)),
		propertyByID:   make(map[uuid.UUID]*Property, len(properties)),
		groupByID:      make(map[uuid.UUID]*PropertyGroup, len(groups)),
		accountByID:    make(map[uuid.UUID]*BillingAccount, len(accounts)),
	}
	for i := range employees {
		e := &s.employees[i]
		s.employeeByID[e.ID] = e
		key := nameKey(e.Name)
		if _, taken := s.employeeByName[key]; !taken {
			s.employeeByName[key] = e
		}
	}
	for i := range properties {
		p := &s.properties[i]
		s.propertyByID[p.ID] = p
		key := nameKey(p.Name)
		if _, taken := s.propertyByName[key]; !taken {
			s.propertyByName[key] = p
		}
	}
	for i := range groups {
		g := &s.groups[i]
		s.groupByID[g.ID] = g
		key := nameKey(g.Name)
		if _, taken := s.groupByName[key]; !taken {
			s.groupByName[key] = g
		}
	}
	for i := range accounts {
		a := &s.accounts[i]
		s.accountByID[a.ID] = a
		key := nameKey(a.Name)
		if _, taken := s.accountByName[key]; !taken {
			s.accountByName[key] = a
		}
	}
	return s
}

// EmptySet returns a snapshot with all collections empty. Resolving against it
// marks every row invalid, which is the deliberate fallback when reference
// loads fail.
func EmptySet() *Set {
	return NewSet(nil, nil, nil, nil)
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// EmployeeByName finds an employee by case-insensitive exact name.
func (s *Set) EmployeeByName(name string) (*Employee, bool) {
	e, ok := s.employeeByName[nameKey(name)]
	return e, ok
}

// PropertyByName finds an individual property by case-insensitive exact name.
func (s *Set) PropertyByName(name string) (*Property, bool) {
	p, ok := s.propertyByName[nameKey(name)]
	return p, ok
}

// GroupByName finds a property group by case-insensitive exact name.
func (s *Set) GroupByName(name string) (*PropertyGroup, bool) {
	g, ok := s.groupByName[nameKey(name)]
	return g, ok
}

// AccountByName finds a billing account by case-insensitive exact name.
func (s *Set) AccountByName(name string) (*BillingAccount, bool) {
	a, ok := s.accountByName[nameKey(name)]
	return a, ok
}

// EmployeeByID finds an employee by ID.
func (s *Set) EmployeeByID(id uuid.UUID) (*Employee, bool) {
	e, ok := s.employeeByID[id]
	return e, ok
}

// PropertyByID finds an individual property by ID.
func (s *Set) PropertyByID(id uuid.UUID) (*Property, bool) {
	p, ok := s.propertyByID[id]
	return p, ok
}

// GroupByID finds a property group by ID.
func (s *Set) GroupByID(id uuid.UUID) (*PropertyGroup, bool) {
	g, ok := s.groupByID[id]
	return g, ok
}

// AccountByID finds a billing account by ID.
func (s *Set) AccountByID(id uuid.UUID) (*BillingAccount, bool) {
	a, ok := s.accountByID[id]
	return a, ok
}

// Employees returns the employee collection in insertion order.
func (s *Set) Employees() []Employee { return s.employees }

// Properties returns the property collection in insertion order.
func (s *Set) Properties() []Property { return s.properties }

// Groups returns the property group collection in insertion order.
func (s *Set) Groups() []PropertyGroup { return s.groups }

// Accounts returns the billing account collection in insertion order.
func (s *Set) Accounts() []BillingAccount { return s.accounts }
