package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineItem is the line shape shared by RFQs, quotations, purchase orders and
// invoices. A line is owned exclusively by its parent document and carries its
// derived amounts so documents never re-run the math on read.
type LineItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	DocumentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductRef  string          `gorm:"type:varchar(100);not null"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPct decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	TaxRatePct  decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	LineTotal      decimal.Decimal `gorm:"type:decimal(18,2);not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// LineItemInput is the caller-supplied shape for a new line
type LineItemInput struct {
	ProductRef  string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	DiscountPct decimal.Decimal
	TaxRatePct  decimal.Decimal
}

// NewLineItem creates a line for the given parent document, deriving its
// amounts through ComputeLine
func NewLineItem(documentID uuid.UUID, input LineItemInput) (*LineItem, error) {
	if input.ProductRef == "" {
		return nil, shared.NewValidationError("Product reference cannot be empty")
	}
	amounts, err := ComputeLine(input.Quantity, input.UnitPrice, input.DiscountPct, input.TaxRatePct)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &LineItem{
		ID:             uuid.New(),
		DocumentID:     documentID,
		ProductRef:     input.ProductRef,
		Description:    input.Description,
		Quantity:       input.Quantity,
		UnitPrice:      input.UnitPrice,
		DiscountPct:    input.DiscountPct,
		TaxRatePct:     input.TaxRatePct,
		Subtotal:       amounts.Subtotal,
		DiscountAmount: amounts.DiscountAmount,
		TaxAmount:      amounts.TaxAmount,
		LineTotal:      amounts.LineTotal,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// UpdateQuantity changes the ordered quantity and rederives the amounts
func (l *LineItem) UpdateQuantity(quantity decimal.Decimal) error {
	amounts, err := ComputeLine(quantity, l.UnitPrice, l.DiscountPct, l.TaxRatePct)
	if err != nil {
		return err
	}
	l.Quantity = quantity
	l.applyAmounts(amounts)
	return nil
}

// UpdateUnitPrice changes the unit price and rederives the amounts
func (l *LineItem) UpdateUnitPrice(unitPrice decimal.Decimal) error {
	amounts, err := ComputeLine(l.Quantity, unitPrice, l.DiscountPct, l.TaxRatePct)
	if err != nil {
		return err
	}
	l.UnitPrice = unitPrice
	l.applyAmounts(amounts)
	return nil
}

func (l *LineItem) applyAmounts(amounts LineAmounts) {
	l.Subtotal = amounts.Subtotal
	l.DiscountAmount = amounts.DiscountAmount
	l.TaxAmount = amounts.TaxAmount
	l.LineTotal = amounts.LineTotal
	l.UpdatedAt = time.Now()
}

// TaxableBase returns subtotal minus the line discount
func (l *LineItem) TaxableBase() decimal.Decimal {
	return l.Subtotal.Sub(l.DiscountAmount)
}
