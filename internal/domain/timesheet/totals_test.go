package timesheet

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculatorTotals(t *testing.T) {
	calc := NewCalculator(dec("0.65"))

	t.Run("zero billing rate falls back to labor total", func(t *testing.T) {
		totals := calc.Totals(dec("10"), dec("20"), decimal.Zero, decimal.Zero)

		assert.True(t, totals.Labor.Equal(dec("200")), "labor=%s", totals.Labor)
		assert.True(t, totals.Billing.Equal(dec("200")), "billing=%s", totals.Billing)
		assert.True(t, totals.Mileage.IsZero())
		assert.True(t, totals.Job.Equal(dec("200")), "job=%s", totals.Job)
	})

	t.Run("positive billing rate and mileage", func(t *testing.T) {
		totals := calc.Totals(dec("10"), dec("20"), dec("30"), dec("8"))

		assert.True(t, totals.Labor.Equal(dec("200")))
		assert.True(t, totals.Billing.Equal(dec("300")))
		assert.True(t, totals.Mileage.Equal(dec("5.20")), "mileage=%s", totals.Mileage)
		assert.True(t, totals.Job.Equal(dec("305.20")), "job=%s", totals.Job)
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		totals := calc.Totals(dec("1.33"), dec("33.33"), decimal.Zero, decimal.Zero)

		assert.True(t, totals.Labor.Equal(dec("44.33")), "labor=%s", totals.Labor)
	})
}

func TestNewCalculatorDefaultRate(t *testing.T) {
	calc := NewCalculator(decimal.Zero)

	assert.True(t, calc.MileageRate().Equal(DefaultMileageRate))
}

func TestRecalculate(t *testing.T) {
	calc := NewCalculator(dec("0.655"))
	row := NewBlankRow()
	row.Hours = "2.50"
	row.Rate = dec("18")
	row.BillingRate = dec("24")
	row.Mileage = "10"

	calc.Recalculate(row)

	assert.True(t, row.Total.Equal(dec("45")), "total=%s", row.Total)
	assert.True(t, row.BillingTotal.Equal(dec("60")), "billingTotal=%s", row.BillingTotal)
	assert.True(t, row.MileageTotal.Equal(dec("6.55")), "mileageTotal=%s", row.MileageTotal)
	assert.True(t, row.JobTotal.Equal(dec("66.55")), "jobTotal=%s", row.JobTotal)
}

func TestParseAmount(t *testing.T) {
	assert.True(t, ParseAmount("").IsZero())
	assert.True(t, ParseAmount("  ").IsZero())
	assert.True(t, ParseAmount("abc").IsZero())
	assert.True(t, ParseAmount("-4").IsZero())
	assert.True(t, ParseAmount("3.25").Equal(dec("3.25")))
}
