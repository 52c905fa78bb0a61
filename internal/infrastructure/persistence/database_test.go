package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupMockDB wires GORM's postgres dialector over a sqlmock connection so
// the generated SQL can be asserted without a live database.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return db, mock
}

func TestReceiptRepository_CountForTenant_SQL(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormReceiptRepository(db)
	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "payment_receipts" WHERE tenant_id = \$1`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountForTenant(context.Background(), tenantID, shared.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptRepository_FindByIDForTenant_NoRows(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormReceiptRepository(db)
	tenantID := uuid.New()
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "payment_receipts" WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(tenantID, id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByIDForTenant(context.Background(), tenantID, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
