package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propertyops/billback/internal/domain/refdata"
)

// EmployeeModel is the persistence model for the Employee reference entity.
type EmployeeModel struct {
	BaseModel
	Name string          `gorm:"type:varchar(200);not null;index"`
	Rate decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the persistence model to a domain Employee.
func (m *EmployeeModel) ToDomain() refdata.Employee {
	return refdata.Employee{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Rate:       m.Rate,
	}
}

// FromDomain populates the model from a domain Employee.
func (m *EmployeeModel) FromDomain(e refdata.Employee) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.Name = e.Name
	m.Rate = e.Rate
}

// EntityModel is the persistence model for the owning legal entity.
type EntityModel struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null;index"`
}

// TableName returns the table name for GORM
func (EntityModel) TableName() string {
	return "entities"
}

// ToDomain converts the persistence model to a domain Entity.
func (m *EntityModel) ToDomain() refdata.Entity {
	return refdata.Entity{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
	}
}

// FromDomain populates the model from a domain Entity.
func (m *EntityModel) FromDomain(e refdata.Entity) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.Name = e.Name
}

// PropertyModel is the persistence model for an individual property. The
// owning entity's name is resolved at load time, not stored.
type PropertyModel struct {
	BaseModel
	Name     string    `gorm:"type:varchar(200);not null;index"`
	EntityID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (PropertyModel) TableName() string {
	return "properties"
}

// ToDomain converts the persistence model to a domain Property. entityName
// comes from the entities table keyed by EntityID.
func (m *PropertyModel) ToDomain(entityName string) refdata.Property {
	return refdata.Property{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		EntityID:   m.EntityID,
		EntityName: entityName,
	}
}

// FromDomain populates the model from a domain Property.
func (m *PropertyModel) FromDomain(p refdata.Property) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.Name = p.Name
	m.EntityID = p.EntityID
}

// PropertyGroupModel is the persistence model for a property group.
type PropertyGroupModel struct {
	BaseModel
	Name string `gorm:"type:varchar(200);not null;index"`

	// Accounts is the group's billing account allow-list.
	Accounts []PropertyGroupAccountModel `gorm:"foreignKey:GroupID"`
}

// TableName returns the table name for GORM
func (PropertyGroupModel) TableName() string {
	return "property_groups"
}

// ToDomain converts the persistence model to a domain PropertyGroup.
func (m *PropertyGroupModel) ToDomain() refdata.PropertyGroup {
	accounts := make([]uuid.UUID, 0, len(m.Accounts))
	for _, a := range m.Accounts {
		accounts = append(accounts, a.BillingAccountID)
	}
	return refdata.PropertyGroup{
		BaseEntity:      m.BaseModel.ToDomain(),
		Name:            m.Name,
		BillingAccounts: accounts,
	}
}

// FromDomain populates the model from a domain PropertyGroup.
func (m *PropertyGroupModel) FromDomain(g refdata.PropertyGroup) {
	m.FromDomainBaseEntity(g.BaseEntity)
	m.Name = g.Name
	m.Accounts = make([]PropertyGroupAccountModel, 0, len(g.BillingAccounts))
	for _, id := range g.BillingAccounts {
		m.Accounts = append(m.Accounts, PropertyGroupAccountModel{
			GroupID:          g.ID,
			BillingAccountID: id,
		})
	}
}

// PropertyGroupAccountModel joins a property group to one allowed billing account.
type PropertyGroupAccountModel struct {
	GroupID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	BillingAccountID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for GORM
func (PropertyGroupAccountModel) TableName() string {
	return "property_group_accounts"
}

// BillingAccountModel is the persistence model for a billing account.
type BillingAccountModel struct {
	BaseModel
	Name         string          `gorm:"type:varchar(200);not null;index"`
	Code         string          `gorm:"type:varchar(50);not null"`
	Rate         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsBilledBack bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (BillingAccountModel) TableName() string {
	return "billing_accounts"
}

// ToDomain converts the persistence model to a domain BillingAccount.
func (m *BillingAccountModel) ToDomain() refdata.BillingAccount {
	return refdata.BillingAccount{
		BaseEntity:   m.BaseModel.ToDomain(),
		Name:         m.Name,
		Code:         m.Code,
		Rate:         m.Rate,
		IsBilledBack: m.IsBilledBack,
	}
}

// FromDomain populates the model from a domain BillingAccount.
func (m *BillingAccountModel) FromDomain(a refdata.BillingAccount) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Name = a.Name
	m.Code = a.Code
	m.Rate = a.Rate
	m.IsBilledBack = a.IsBilledBack
}
