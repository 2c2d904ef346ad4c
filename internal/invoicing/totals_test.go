package invoicing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeLineTotalsIVAOnly(t *testing.T) {
	lt := ComputeLineTotals(2, 50, 0, true, false)
	assert.Equal(t, 100.0, lt.Subtotal)
	assert.Equal(t, 0.0, lt.Discount)
	assert.Equal(t, 100.0, lt.TaxableBase)
	assert.Equal(t, 15.0, lt.IVA)
	assert.Equal(t, 0.0, lt.ICE)
	assert.Equal(t, 115.0, lt.Total)
}

func TestComputeLineTotalsDiscountBeforeTax(t *testing.T) {
	// 10% off 200 leaves a base of 180; IVA applies to the base.
	lt := ComputeLineTotals(4, 50, 10, true, false)
	assert.Equal(t, 200.0, lt.Subtotal)
	assert.Equal(t, 20.0, lt.Discount)
	assert.Equal(t, 180.0, lt.TaxableBase)
	assert.Equal(t, 27.0, lt.IVA)
	assert.Equal(t, 207.0, lt.Total)
}

func TestComputeLineTotalsWithICE(t *testing.T) {
	lt := ComputeLineTotals(1, 100, 0, true, true)
	assert.Equal(t, 100.0, lt.TaxableBase)
	assert.Equal(t, 15.0, lt.IVA)
	assert.Equal(t, 5.0, lt.ICE)
	assert.Equal(t, 120.0, lt.Total)
}

func TestComputeLineTotalsExemptProduct(t *testing.T) {
	lt := ComputeLineTotals(3, 7.5, 0, false, false)
	assert.Equal(t, 22.5, lt.Subtotal)
	assert.Equal(t, 0.0, lt.IVA)
	assert.Equal(t, 0.0, lt.ICE)
	assert.Equal(t, 22.5, lt.Total)
}

func TestComputeLineTotalsRounding(t *testing.T) {
	// 3 x 0.33 = 0.99, IVA 0.1485 rounds to 0.15.
	lt := ComputeLineTotals(3, 0.33, 0, true, false)
	assert.Equal(t, 0.99, lt.Subtotal)
	assert.Equal(t, 0.15, lt.IVA)
	assert.Equal(t, 1.14, lt.Total)
}

func TestSumTotals(t *testing.T) {
	lines := []LineTotals{
		ComputeLineTotals(2, 50, 0, true, false),
		ComputeLineTotals(4, 50, 10, true, false),
		ComputeLineTotals(1, 100, 0, true, true),
	}
	totals := SumTotals(lines)
	assert.Equal(t, 400.0, totals.Subtotal)
	assert.Equal(t, 20.0, totals.Discount)
	assert.Equal(t, 380.0, totals.TaxableBase)
	assert.Equal(t, 57.0, totals.IVA)
	assert.Equal(t, 5.0, totals.ICE)
	assert.Equal(t, 442.0, totals.Total)
}

func TestRoundTo2(t *testing.T) {
	assert.Equal(t, 1.01, roundTo2(1.006))
	assert.Equal(t, 1.0, roundTo2(1.004))
	assert.Equal(t, -1.01, roundTo2(-1.006))
	assert.Equal(t, 0.0, roundTo2(0))
}
