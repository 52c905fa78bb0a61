package procurement

import (
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineAmounts holds the derived monetary components of a single line.
// All values are rounded half-up to 2 decimal places at each derivation step,
// so lineTotal = subtotal - discountAmount + taxAmount holds exactly.
type LineAmounts struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxableBase    decimal.Decimal
	TaxAmount      decimal.Decimal
	LineTotal      decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// ComputeLine derives a line's amounts from quantity, unit price, discount
// rate and tax rate. It is pure: invalid input returns a validation error and
// nothing else happens.
func ComputeLine(quantity, unitPrice, discountPct, taxRatePct decimal.Decimal) (LineAmounts, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return LineAmounts{}, shared.NewValidationError("Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return LineAmounts{}, shared.NewValidationError("Unit price cannot be negative")
	}
	if discountPct.IsNegative() || discountPct.GreaterThan(oneHundred) {
		return LineAmounts{}, shared.NewValidationError("Discount percentage must be between 0 and 100")
	}
	if taxRatePct.IsNegative() {
		return LineAmounts{}, shared.NewValidationError("Tax rate percentage cannot be negative")
	}

	subtotal := quantity.Mul(unitPrice).Round(2)
	discountAmount := subtotal.Mul(discountPct).Div(oneHundred).Round(2)
	taxableBase := subtotal.Sub(discountAmount)
	taxAmount := taxableBase.Mul(taxRatePct).Div(oneHundred).Round(2)
	lineTotal := taxableBase.Add(taxAmount)

	return LineAmounts{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxableBase:    taxableBase,
		TaxAmount:      taxAmount,
		LineTotal:      lineTotal,
	}, nil
}

// DocumentTotals aggregates line amounts into document-level totals.
// Total = sum(lineTotal) + shippingCharges - documentDiscount.
type DocumentTotals struct {
	Subtotal      decimal.Decimal
	TotalDiscount decimal.Decimal
	TotalTax      decimal.Decimal
	Total         decimal.Decimal
}

// AggregateTotals sums line amounts and applies the document-level shipping
// charge and discount. Document types without a document-level discount or
// shipping field pass zero; the line-level formula and the line-plus-document
// formula are the same computation with those parameters zeroed.
//
// The document discount is applied once, after every line's own discount and
// tax are fully resolved. A negative grand total (document discount larger
// than the line totals) is surfaced, not clamped; creation-time validation of
// the owning document decides whether to reject it.
func AggregateTotals(lines []LineItem, shippingCharges, documentDiscount decimal.Decimal) (DocumentTotals, error) {
	if shippingCharges.IsNegative() {
		return DocumentTotals{}, shared.NewValidationError("Shipping charges cannot be negative")
	}
	if documentDiscount.IsNegative() {
		return DocumentTotals{}, shared.NewValidationError("Document discount cannot be negative")
	}

	totals := DocumentTotals{
		Subtotal:      decimal.Zero,
		TotalDiscount: decimal.Zero,
		TotalTax:      decimal.Zero,
		Total:         decimal.Zero,
	}
	lineTotalSum := decimal.Zero
	for i := range lines {
		totals.Subtotal = totals.Subtotal.Add(lines[i].Subtotal)
		totals.TotalDiscount = totals.TotalDiscount.Add(lines[i].DiscountAmount)
		totals.TotalTax = totals.TotalTax.Add(lines[i].TaxAmount)
		lineTotalSum = lineTotalSum.Add(lines[i].LineTotal)
	}

	totals.TotalDiscount = totals.TotalDiscount.Add(documentDiscount)
	totals.Total = lineTotalSum.Add(shippingCharges).Sub(documentDiscount)
	return totals, nil
}
