package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TemplateKind identifies the notification template to render
type TemplateKind string

const (
	TemplateRFQInvitation     TemplateKind = "RFQ_INVITATION"
	TemplatePOIssued          TemplateKind = "PO_ISSUED"
	TemplateInvoiceIssued     TemplateKind = "INVOICE_ISSUED"
	TemplateInvoicePaid       TemplateKind = "INVOICE_PAID"
	TemplateQuotationDecision TemplateKind = "QUOTATION_DECISION"
)

// Notifier delivers counterparty notifications. Delivery is fire-and-forget
// from the engine's perspective: a failed notification never rolls back the
// state transition that triggered it.
type Notifier interface {
	Notify(ctx context.Context, recipient uuid.UUID, kind TemplateKind, payload map[string]any) error
}

// FileStore stores opaque uploaded documents (file-based quotations,
// invoice attachments) and hands back an opaque reference.
type FileStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, fileRef string) ([]byte, error)
	Delete(ctx context.Context, fileRef string) error
}

// TransactionManager runs a unit of work atomically. Repository calls made
// with the context passed to fn join the same transaction; returning an error
// rolls the whole unit back.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// IdempotencyStore stores processed operation tokens to prevent duplicate
// side effects (goods-receipt replays, event handler re-delivery).
type IdempotencyStore interface {
	// MarkProcessed marks a token as processed with a TTL.
	// Returns true if the token was newly marked, false if already processed.
	MarkProcessed(ctx context.Context, token string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a token has already been processed
	IsProcessed(ctx context.Context, token string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}
