package persistence

import "strings"

// ValidateSortOrder normalizes the sort order to ASC or DESC.
// Returns DESC for invalid or empty input.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist.
// Returns the defaultField when the input is empty or not whitelisted.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// RFQSortFields contains allowed sort fields for RFQs
var RFQSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"rfq_number": true,
	"title":      true,
	"status":     true,
	"deadline":   true,
	"sent_at":    true,
	"closed_at":  true,
}

// QuotationSortFields contains allowed sort fields for quotations
var QuotationSortFields = map[string]bool{
	"id":                true,
	"created_at":        true,
	"updated_at":        true,
	"submission_number": true,
	"supplier_id":       true,
	"supplier_name":     true,
	"type":              true,
	"status":            true,
	"total_amount":      true,
	"reviewed_at":       true,
	"decided_at":        true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"po_number":     true,
	"supplier_id":   true,
	"supplier_name": true,
	"status":        true,
	"po_date":       true,
	"total_amount":  true,
	"sent_at":       true,
	"confirmed_at":  true,
	"received_at":   true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"supplier_id":    true,
	"supplier_name":  true,
	"status":         true,
	"total_amount":   true,
	"amount_paid":    true,
	"due_date":       true,
	"submitted_at":   true,
	"approved_at":    true,
	"paid_at":        true,
}

// ReceiptSortFields contains allowed sort fields for payment receipts
var ReceiptSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"receipt_number": true,
	"invoice_id":     true,
	"supplier_id":    true,
	"amount":         true,
	"issued_at":      true,
}
