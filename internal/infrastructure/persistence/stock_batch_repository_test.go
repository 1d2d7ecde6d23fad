package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pharmstock/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockStockBatchRepo(t *testing.T) (*GormStockBatchRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormStockBatchRepository(gormDB), mock, mockDB
}

func TestStockBatchRepository_DecreaseByID(t *testing.T) {
	t.Run("atomic decrement succeeds", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepo(t)
		defer mockDB.Close()

		batchID := uuid.New()

		mock.ExpectBegin()
		// Guarded update: only rows with enough quantity are touched
		mock.ExpectExec(`UPDATE "stock_batches" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		rows := sqlmock.NewRows([]string{"id", "product_id", "batch_number", "quantity"}).
			AddRow(batchID, uuid.New(), "BN-001", int64(40))
		mock.ExpectQuery(`SELECT .* FROM "stock_batches"`).
			WillReturnRows(rows)
		mock.ExpectCommit()

		batch, err := repo.DecreaseByID(context.Background(), batchID, 10)

		require.NoError(t, err)
		assert.Equal(t, int64(40), batch.Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insufficient stock leaves row unchanged", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepo(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "stock_batches" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		// Row exists, so zero affected rows means the quantity guard rejected it
		mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_batches"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectRollback()

		_, err := repo.DecreaseByID(context.Background(), uuid.New(), 100)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing batch", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepo(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "stock_batches" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "stock_batches"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectRollback()

		_, err := repo.DecreaseByID(context.Background(), uuid.New(), 10)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-positive delta rejected without touching the database", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepo(t)
		defer mockDB.Close()

		_, err := repo.DecreaseByID(context.Background(), uuid.New(), 0)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStockBatchRepository_Delete(t *testing.T) {
	t.Run("referenced batch cannot be deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepo(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "sale_order_items"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), uuid.New())

		assert.ErrorIs(t, err, shared.ErrBatchReferenced)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unreferenced batch is deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepo(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "sale_order_items"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM "stock_batches"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Delete(context.Background(), uuid.New())

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing batch", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepo(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "sale_order_items"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`DELETE FROM "stock_batches"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Delete(context.Background(), uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStockBatchRepository_FindByID(t *testing.T) {
	t.Run("unknown id maps to ErrNotFound", func(t *testing.T) {
		repo, mock, mockDB := newMockStockBatchRepo(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT .* FROM "stock_batches"`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
