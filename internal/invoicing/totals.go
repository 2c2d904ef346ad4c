package invoicing

// Ecuadorian tax rates applied at issuance time.
const (
	IVARate = 0.15
	ICERate = 0.05
)

// LineTotals is the per-line tax split.
type LineTotals struct {
	Subtotal    float64
	Discount    float64
	TaxableBase float64
	IVA         float64
	ICE         float64
	Total       float64
}

// Totals aggregates the invoice-level amounts.
type Totals struct {
	Subtotal    float64
	Discount    float64
	TaxableBase float64
	IVA         float64
	ICE         float64
	Total       float64
}

// ComputeLineTotals derives the tax split for one line. The discount
// applies before the taxable base; IVA and ICE only accrue when the
// product carries the corresponding flag.
func ComputeLineTotals(quantity, unitPrice, discountPercent float64, hasIVA, hasICE bool) LineTotals {
	subtotal := quantity * unitPrice
	discount := roundTo2(subtotal * discountPercent / 100)
	base := subtotal - discount
	var iva, ice float64
	if hasIVA {
		iva = roundTo2(base * IVARate)
	}
	if hasICE {
		ice = roundTo2(base * ICERate)
	}
	return LineTotals{
		Subtotal:    roundTo2(subtotal),
		Discount:    discount,
		TaxableBase: roundTo2(base),
		IVA:         iva,
		ICE:         ice,
		Total:       roundTo2(base + iva + ice),
	}
}

// SumTotals folds line totals into the invoice totals.
func SumTotals(lines []LineTotals) Totals {
	var t Totals
	for _, l := range lines {
		t.Subtotal += l.Subtotal
		t.Discount += l.Discount
		t.IVA += l.IVA
		t.ICE += l.ICE
	}
	t.Subtotal = roundTo2(t.Subtotal)
	t.Discount = roundTo2(t.Discount)
	t.TaxableBase = roundTo2(t.Subtotal - t.Discount)
	t.IVA = roundTo2(t.IVA)
	t.ICE = roundTo2(t.ICE)
	t.Total = roundTo2(t.TaxableBase + t.IVA + t.ICE)
	return t
}

func roundTo2(val float64) float64 {
	if val < 0 {
		return -roundTo2(-val)
	}
	return float64(int64(val*100+0.5)) / 100
}
