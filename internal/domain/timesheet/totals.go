package timesheet

import "github.com/shopspring/decimal"

// DefaultMileageRate is the canonical per-mile reimbursement rate (the 2023
// IRS standard mileage rate). Override via configuration.
var DefaultMileageRate = decimal.RequireFromString("0.655")

// TotalSet holds the four dependent monetary totals of a row, each rounded to
// two decimal places.
type TotalSet struct {
	Labor   decimal.Decimal
	Billing decimal.Decimal
	Mileage decimal.Decimal
	Job     decimal.Decimal
}

// Calculator derives the monetary totals for a row. It carries the configured
// mileage rate so every call site computes with the same constant.
type Calculator struct {
	mileageRate decimal.Decimal
}

// NewCalculator creates a Calculator with the given mileage rate. A zero or
// negative rate falls back to DefaultMileageRate.
func NewCalculator(mileageRate decimal.Decimal) *Calculator {
	if mileageRate.LessThanOrEqual(decimal.Zero) {
		mileageRate = DefaultMileageRate
	}
	return &Calculator{mileageRate: mileageRate}
}

// MileageRate returns the configured per-mile rate.
func (c *Calculator) MileageRate() decimal.Decimal {
	return c.mileageRate
}

// Totals computes the four totals from the given inputs.
//
// The billing total falls back to the labor total when the billing rate is
// not positive: that fallback is what makes non-billable categories bill at
// raw labor cost.
func (c *Calculator) Totals(hours, laborRate, billingRate, mileage decimal.Decimal) TotalSet {
	labor := hours.Mul(laborRate).Round(2)
	billing := labor
	if billingRate.IsPositive() {
		billing = hours.Mul(billingRate).Round(2)
	}
	mileageTotal := mileage.Mul(c.mileageRate).Round(2)
	return TotalSet{
		Labor:   labor,
		Billing: billing,
		Mileage: mileageTotal,
		Job:     billing.Add(mileageTotal),
	}
}

// Recalculate recomputes the row's totals from its current hours, rates and
// mileage.
func (c *Calculator) Recalculate(row *TimeEntryRow) {
	totals := c.Totals(row.HoursDecimal(), row.Rate, row.BillingRate, row.MileageDecimal())
	row.Total = totals.Labor
	row.BillingTotal = totals.Billing
	row.MileageTotal = totals.Mileage
	row.JobTotal = totals.Job
}
