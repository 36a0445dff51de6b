package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	timesheetapp "github.com/propertyops/billback/internal/application/timesheet"
)

// CacheInvalidator drops cached reference collections so the next fetch hits
// the authoritative source.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// RefdataHandler exposes the reference collections and the reload operation.
type RefdataHandler struct {
	BaseHandler
	service     *timesheetapp.Service
	invalidator CacheInvalidator
}

// NewRefdataHandler creates a new RefdataHandler. invalidator may be nil when
// no cache sits in front of the provider.
func NewRefdataHandler(service *timesheetapp.Service, invalidator CacheInvalidator) *RefdataHandler {
	return &RefdataHandler{service: service, invalidator: invalidator}
}

// RegisterRoutes registers all reference data routes
func (h *RefdataHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ref := rg.Group("/refdata")
	{
		ref.POST("/reload", h.Reload)
		ref.GET("/employees", h.Employees)
		ref.GET("/properties", h.Properties)
		ref.GET("/property-groups", h.PropertyGroups)
		ref.GET("/billing-accounts", h.BillingAccounts)
	}
}

// Reload invalidates any cache, refetches all four collections and
// re-resolves every working-set row against the fresh snapshot.
func (h *RefdataHandler) Reload(c *gin.Context) {
	if h.invalidator != nil {
		// A failed invalidation still reloads; stale entries expire on TTL.
		_ = h.invalidator.Invalidate(c.Request.Context())
	}
	h.service.ReloadReferenceData(c.Request.Context())

	refs := h.service.References()
	h.Success(c, gin.H{
		"employees":        len(refs.Employees()),
		"properties":       len(refs.Properties()),
		"property_groups":  len(refs.Groups()),
		"billing_accounts": len(refs.Accounts()),
	})
}

type employeeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Rate string `json:"rate"`
}

// Employees lists the loaded employee collection.
func (h *RefdataHandler) Employees(c *gin.Context) {
	employees := h.service.References().Employees()
	out := make([]employeeResponse, 0, len(employees))
	for _, e := range employees {
		out = append(out, employeeResponse{
			ID:   e.ID.String(),
			Name: e.Name,
			Rate: e.Rate.StringFixed(2),
		})
	}
	h.Success(c, out)
}

type propertyResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
}

// Properties lists the loaded property collection.
func (h *RefdataHandler) Properties(c *gin.Context) {
	properties := h.service.References().Properties()
	out := make([]propertyResponse, 0, len(properties))
	for _, p := range properties {
		out = append(out, propertyResponse{
			ID:         p.ID.String(),
			Name:       p.Name,
			EntityID:   p.EntityID.String(),
			EntityName: p.EntityName,
		})
	}
	h.Success(c, out)
}

type propertyGroupResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	BillingAccounts []string `json:"billing_accounts"`
}

// PropertyGroups lists the loaded property group collection.
func (h *RefdataHandler) PropertyGroups(c *gin.Context) {
	groups := h.service.References().Groups()
	out := make([]propertyGroupResponse, 0, len(groups))
	for _, g := range groups {
		accounts := make([]string, 0, len(g.BillingAccounts))
		for _, id := range g.BillingAccounts {
			accounts = append(accounts, id.String())
		}
		out = append(out, propertyGroupResponse{
			ID:              g.ID.String(),
			Name:            g.Name,
			BillingAccounts: accounts,
		})
	}
	h.Success(c, out)
}

type billingAccountResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	Rate         string `json:"rate"`
	IsBilledBack bool   `json:"is_billed_back"`
}

// BillingAccounts lists the loaded billing account collection.
func (h *RefdataHandler) BillingAccounts(c *gin.Context) {
	accounts := h.service.References().Accounts()
	out := make([]billingAccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, billingAccountResponse{
			ID:           a.ID.String(),
			Name:         a.Name,
			Code:         a.Code,
			Rate:         a.Rate.StringFixed(2),
			IsBilledBack: a.IsBilledBack,
		})
	}
	h.Success(c, out)
}
