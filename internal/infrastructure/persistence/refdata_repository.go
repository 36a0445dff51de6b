package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/propertyops/billback/internal/domain/refdata"
	"github.com/propertyops/billback/internal/infrastructure/persistence/models"
)

// GormRefdataRepository loads the reference collections from the database.
// It implements refdata.Provider.
type GormRefdataRepository struct {
	db *gorm.DB
}

// NewGormRefdataRepository creates a new GormRefdataRepository
func NewGormRefdataRepository(db *gorm.DB) *GormRefdataRepository {
	return &GormRefdataRepository{db: db}
}

// FetchEmployees returns all employees ordered by creation time.
func (r *GormRefdataRepository) FetchEmployees(ctx context.Context) ([]refdata.Employee, error) {
	var rows []models.EmployeeModel
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	employees := make([]refdata.Employee, 0, len(rows))
	for i := range rows {
		employees = append(employees, rows[i].ToDomain())
	}
	return employees, nil
}

// FetchEntities returns all owning entities ordered by creation time.
func (r *GormRefdataRepository) FetchEntities(ctx context.Context) ([]refdata.Entity, error) {
	var rows []models.EntityModel
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	entities := make([]refdata.Entity, 0, len(rows))
	for i := range rows {
		entities = append(entities, rows[i].ToDomain())
	}
	return entities, nil
}

// FetchProperties returns all properties with their owning entity's name
// resolved, ordered by creation time.
func (r *GormRefdataRepository) FetchProperties(ctx context.Context) ([]refdata.Property, error) {
	var entityRows []models.EntityModel
	if err := r.db.WithContext(ctx).Find(&entityRows).Error; err != nil {
		return nil, err
	}
	entityNames := make(map[string]string, len(entityRows))
	for i := range entityRows {
		entityNames[entityRows[i].ID.String()] = entityRows[i].Name
	}

	var rows []models.PropertyModel
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	properties := make([]refdata.Property, 0, len(rows))
	for i := range rows {
		properties = append(properties, rows[i].ToDomain(entityNames[rows[i].EntityID.String()]))
	}
	return properties, nil
}

// FetchPropertyGroups returns all property groups with their billing account
// allow-lists, ordered by creation time.
func (r *GormRefdataRepository) FetchPropertyGroups(ctx context.Context) ([]refdata.PropertyGroup, error) {
	var rows []models.PropertyGroupModel
	if err := r.db.WithContext(ctx).Preload("Accounts").Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	groups := make([]refdata.PropertyGroup, 0, len(rows))
	for i := range rows {
		groups = append(groups, rows[i].ToDomain())
	}
	return groups, nil
}

// FetchBillingAccounts returns all billing accounts ordered by creation time.
func (r *GormRefdataRepository) FetchBillingAccounts(ctx context.Context) ([]refdata.BillingAccount, error) {
	var rows []models.BillingAccountModel
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, err
	}
	accounts := make([]refdata.BillingAccount, 0, len(rows))
	for i := range rows {
		accounts = append(accounts, rows[i].ToDomain())
	}
	return accounts, nil
}

var _ refdata.Provider = (*GormRefdataRepository)(nil)
