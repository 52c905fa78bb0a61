package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	app "github.com/procureflow/backend/internal/application/procurement"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/procureflow/backend/internal/infrastructure/auth"
	"github.com/procureflow/backend/internal/infrastructure/cache"
	"github.com/procureflow/backend/internal/infrastructure/config"
	"github.com/procureflow/backend/internal/infrastructure/event"
	"github.com/procureflow/backend/internal/infrastructure/persistence"
	"github.com/procureflow/backend/internal/infrastructure/storage"
	"github.com/procureflow/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

// testServer wires the full stack over an in-memory database
type testServer struct {
	engine        *gin.Engine
	jwtService    *auth.JWTService
	tenantID      uuid.UUID
	buyerToken    string
	supplierID    uuid.UUID
	supplierToken string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, persistence.AutoMigrate(db))

	log := zap.NewNop()

	rfqRepo := persistence.NewGormRFQRepository(db)
	quotationRepo := persistence.NewGormQuotationRepository(db)
	poRepo := persistence.NewGormPurchaseOrderRepository(db)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	receiptRepo := persistence.NewGormReceiptRepository(db)
	eligibilityRepo := persistence.NewGormEligibilityRepository(db)

	txManager := persistence.NewGormTransactionManager(db)
	rfqService := app.NewRFQService(rfqRepo, log)
	quotationService := app.NewQuotationService(quotationRepo, rfqService, eligibilityRepo, log)
	poService := app.NewPurchaseOrderService(poRepo, log)
	invoiceService := app.NewInvoiceService(invoiceRepo, quotationRepo, eligibilityRepo, log)
	receiptService := app.NewReceiptService(receiptRepo, invoiceRepo, log)

	quotationService.SetFileStore(storage.NewMemoryFileStore("test-bucket"))
	quotationService.SetTransactionManager(txManager)
	invoiceService.SetTransactionManager(txManager)
	poService.SetIdempotencyStore(cache.NewInMemoryIdempotencyStore())

	eventBus := event.NewInMemoryEventBus(log)
	rfqService.SetEventPublisher(eventBus)
	quotationService.SetEventPublisher(eventBus)
	poService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)
	receiptService.SetEventPublisher(eventBus)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "0123456789abcdef0123456789abcdef",
		AccessTokenExpiration: time.Hour,
		Issuer:                "procureflow-test",
	})

	handlers := Handlers{
		RFQ:           handler.NewRFQHandler(rfqService),
		Quotation:     handler.NewQuotationHandler(quotationService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(poService),
		Invoice:       handler.NewInvoiceHandler(invoiceService),
		Receipt:       handler.NewReceiptHandler(receiptService),
	}

	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(NewProcurementRoutes(handlers, jwtService, log))
	r.Setup()

	tenantID := uuid.New()
	buyerID := uuid.New()
	supplierID := uuid.New()

	buyerToken, _, err := jwtService.GenerateToken(auth.GenerateTokenInput{
		TenantID: tenantID,
		Actor:    shared.BuyerActor(buyerID),
		Name:     "Purchasing Dept",
	})
	require.NoError(t, err)

	supplierToken, _, err := jwtService.GenerateToken(auth.GenerateTokenInput{
		TenantID: tenantID,
		Actor:    shared.SupplierActor(supplierID),
		Name:     "Acme Components",
	})
	require.NoError(t, err)

	return &testServer{
		engine:        engine,
		jwtService:    jwtService,
		tenantID:      tenantID,
		buyerToken:    buyerToken,
		supplierID:    supplierID,
		supplierToken: supplierToken,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func dataField(t *testing.T, env envelope, field string) string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &m))
	var v string
	require.NoError(t, json.Unmarshal(m[field], &v))
	return v
}

func TestAuthGuards(t *testing.T) {
	s := newTestServer(t)

	t.Run("missing token", func(t *testing.T) {
		w, env := s.do(t, http.MethodGet, "/api/v1/rfqs", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w, _ := s.do(t, http.MethodGet, "/api/v1/rfqs", "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("supplier on buyer route", func(t *testing.T) {
		w, env := s.do(t, http.MethodGet, "/api/v1/rfqs", s.supplierToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, shared.CodeForbiddenActor, env.Error.Code)
	})

	t.Run("buyer on supplier route", func(t *testing.T) {
		w, _ := s.do(t, http.MethodGet, "/api/v1/supplier/rfqs", s.buyerToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

// TestProcurementLifecycle walks the whole document chain over HTTP:
// RFQ -> quotation -> acceptance -> invoice -> payments -> receipt.
func TestProcurementLifecycle(t *testing.T) {
	s := newTestServer(t)
	dueDate := time.Now().AddDate(0, 1, 0).Format(time.RFC3339)

	// Buyer drafts and sends an RFQ inviting the supplier
	w, env := s.do(t, http.MethodPost, "/api/v1/rfqs", s.buyerToken, map[string]any{
		"title": "Q3 fastener restock",
		"lines": []map[string]any{
			{"product_ref": "SKU-1001", "description": "Hex bolts M8", "quantity": 10, "unit_price": 25},
		},
		"suppliers": []map[string]any{
			{"supplier_id": s.supplierID, "supplier_name": "Acme Components"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rfqID := dataField(t, env, "id")

	w, _ = s.do(t, http.MethodPost, "/api/v1/rfqs/"+rfqID+"/send", s.buyerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The supplier sees the open RFQ
	w, _ = s.do(t, http.MethodGet, "/api/v1/supplier/rfqs", s.supplierToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Supplier answers with an itemized quotation
	w, env = s.do(t, http.MethodPost, "/api/v1/supplier/quotations", s.supplierToken, map[string]any{
		"supplier_name": "Acme Components",
		"rfq_id":        rfqID,
		"lines": []map[string]any{
			{"product_ref": "SKU-1001", "description": "Hex bolts M8", "quantity": 10, "unit_price": 25},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	quotationID := dataField(t, env, "id")

	// A second submission against the same RFQ is rejected
	w, env = s.do(t, http.MethodPost, "/api/v1/supplier/quotations", s.supplierToken, map[string]any{
		"supplier_name": "Acme Components",
		"rfq_id":        rfqID,
		"lines": []map[string]any{
			{"product_ref": "SKU-1001", "description": "Hex bolts M8", "quantity": 10, "unit_price": 24},
		},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	// Buyer reviews and accepts
	w, _ = s.do(t, http.MethodPost, "/api/v1/quotations/"+quotationID+"/review", s.buyerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = s.do(t, http.MethodPost, "/api/v1/quotations/"+quotationID+"/accept", s.buyerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Acceptance opened the invoice gate; the supplier draws the invoice
	w, env = s.do(t, http.MethodPost, "/api/v1/supplier/invoices/from-quotation", s.supplierToken, map[string]any{
		"quotation_id": quotationID,
		"due_date":     dueDate,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	invoiceID := dataField(t, env, "id")

	// The gate is one-shot
	w, env = s.do(t, http.MethodPost, "/api/v1/supplier/invoices/from-quotation", s.supplierToken, map[string]any{
		"quotation_id": quotationID,
		"due_date":     dueDate,
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	require.NotNil(t, env.Error)
	assert.Equal(t, shared.CodeGuardFailed, env.Error.Code)

	// Supplier submits, buyer approves and pays in two installments
	w, _ = s.do(t, http.MethodPost, "/api/v1/supplier/invoices/"+invoiceID+"/submit", s.supplierToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w, _ = s.do(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/approve", s.buyerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = s.do(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/payments", s.buyerToken, map[string]any{
		"amount": 100, "method": "BANK_TRANSFER", "reference": "TXN-1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Overpaying the remainder is refused
	w, env = s.do(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/payments", s.buyerToken, map[string]any{
		"amount": 200, "method": "BANK_TRANSFER", "reference": "TXN-2",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	require.NotNil(t, env.Error)
	assert.Equal(t, shared.CodeOverpayment, env.Error.Code)

	w, env = s.do(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/payments", s.buyerToken, map[string]any{
		"amount": 150, "method": "BANK_TRANSFER", "reference": "TXN-2",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "PAID", dataField(t, env, "status"))

	// Receipt generation is idempotent per invoice
	w, env = s.do(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/receipt", s.buyerToken, map[string]any{
		"payment_method": "BANK_TRANSFER",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	receiptNumber := dataField(t, env, "receipt_number")

	w, env = s.do(t, http.MethodPost, "/api/v1/invoices/"+invoiceID+"/receipt", s.buyerToken, map[string]any{
		"payment_method": "BANK_TRANSFER",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, receiptNumber, dataField(t, env, "receipt_number"))

	w, _ = s.do(t, http.MethodGet, "/api/v1/invoices/"+invoiceID+"/receipt", s.buyerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestPurchaseOrderFlow covers the PO side: send, supplier confirmation and
// idempotent goods receipt.
func TestPurchaseOrderFlow(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodPost, "/api/v1/purchase-orders", s.buyerToken, map[string]any{
		"supplier_id":   s.supplierID,
		"supplier_name": "Acme Components",
		"warehouse_ref": "WH-MAIN",
		"po_date":       time.Now().Format(time.RFC3339),
		"lines": []map[string]any{
			{"product_ref": "SKU-2001", "description": "Steel plate", "quantity": 4, "unit_price": 50},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	poID := dataField(t, env, "id")

	var created struct {
		Lines []struct {
			ID string `json:"id"`
		} `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Len(t, created.Lines, 1)
	lineID := created.Lines[0].ID

	w, _ = s.do(t, http.MethodPost, "/api/v1/purchase-orders/"+poID+"/send", s.buyerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Only the supplier may confirm
	w, _ = s.do(t, http.MethodPost, "/api/v1/supplier/purchase-orders/"+poID+"/confirm", s.supplierToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env = s.do(t, http.MethodPost, "/api/v1/purchase-orders/"+poID+"/receipts", s.buyerToken, map[string]any{
		"line_id": lineID, "quantity": 2, "idempotency_token": "rcv-001",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "PARTIALLY_RECEIVED", dataField(t, env, "status"))

	// Replaying the same token is refused without double-counting
	w, env = s.do(t, http.MethodPost, "/api/v1/purchase-orders/"+poID+"/receipts", s.buyerToken, map[string]any{
		"line_id": lineID, "quantity": 2, "idempotency_token": "rcv-001",
	})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	require.NotNil(t, env.Error)
	assert.Equal(t, shared.CodeDuplicateReceipt, env.Error.Code)

	w, env = s.do(t, http.MethodPost, "/api/v1/purchase-orders/"+poID+"/receipts", s.buyerToken, map[string]any{
		"line_id": lineID, "quantity": 2, "idempotency_token": "rcv-002",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "RECEIVED", dataField(t, env, "status"))
}
