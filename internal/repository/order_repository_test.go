package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"print_shop_sync/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockOrderRepository(t *testing.T) (OrderRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewOrderRepository(gormDB), mock, mockDB
}

func TestOrderRepositoryUpsert(t *testing.T) {
	t.Run("inserts with conflict clause on the composite key", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`INSERT INTO "orders" .* ON CONFLICT \("order_number","platform"\) DO UPDATE SET .*"synced_at"="excluded"\."synced_at"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		order := &models.Order{
			OrderNumber:      "GEL-1001",
			Platform:         models.PlatformGelato,
			Quantity:         25,
			DecorationMethod: models.DecorationScreenPrint,
			DueDate:          time.Now().Add(72 * time.Hour),
			Status:           models.StatusPrinting,
		}

		err := repo.Upsert(context.Background(), order)

		assert.NoError(t, err)
		assert.NotEmpty(t, order.ID)
		assert.False(t, order.SyncedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("defaults status and due date when unset", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`INSERT INTO "orders"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		order := &models.Order{
			OrderNumber: "FP-42",
			Platform:    models.PlatformFastPlatform,
			Quantity:    1,
		}

		err := repo.Upsert(context.Background(), order)

		assert.NoError(t, err)
		assert.Equal(t, models.StatusPending, order.Status)
		assert.False(t, order.DueDate.IsZero())
	})
}

// The conflict clause may only touch platform-sourced columns; operator edits
// survive every re-sync because their columns never appear in the update set.
func TestOrderSyncedColumnsExcludeOperatorFields(t *testing.T) {
	assert.NotContains(t, orderSyncedColumns, "notes")
	assert.NotContains(t, orderSyncedColumns, "assigned_to")
	assert.NotContains(t, orderSyncedColumns, "priority")

	assert.Contains(t, orderSyncedColumns, "status")
	assert.Contains(t, orderSyncedColumns, "due_date")
	assert.Contains(t, orderSyncedColumns, "order_details")
	assert.Contains(t, orderSyncedColumns, "synced_at")
}

func TestOrderRepositoryList(t *testing.T) {
	t.Run("applies filters and schedule ordering", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"id", "order_number", "platform", "status"}).
			AddRow("a4f7e0a2-0000-0000-0000-000000000001", "SW-1", "shopworks", "printing")

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE platform = \$1 AND status = \$2 ORDER BY priority DESC, due_date ASC LIMIT \$3`).
			WillReturnRows(rows)

		platform := models.PlatformShopworks
		status := models.StatusPrinting
		orders, err := repo.List(context.Background(), models.OrderFilters{
			Platform: &platform,
			Status:   &status,
		}, 100, 0)

		assert.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "SW-1", orders[0].OrderNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("searches order number and customer name", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "orders" WHERE \(order_number ILIKE \$1 OR customer_name ILIKE \$2\)`).
			WithArgs("%acme%", "%acme%", 50).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.List(context.Background(), models.OrderFilters{Search: "acme"}, 50, 0)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepositoryUpdateOperatorFields(t *testing.T) {
	t.Run("returns not found for unknown id", func(t *testing.T) {
		repo, mock, mockDB := newMockOrderRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`UPDATE "orders" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		notes := "fragile"
		_, err := repo.UpdateOperatorFields(context.Background(), "missing-id", models.OrderUpdate{Notes: &notes})

		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestOrderRepositoryStats(t *testing.T) {
	repo, mock, mockDB := newMockOrderRepository(t)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{
		"total", "pending", "in_production", "in_qc", "packing", "shipped", "priority", "overdue",
	}).AddRow(12, 3, 4, 1, 2, 2, 5, 1)

	mock.ExpectQuery(`SELECT .* FROM orders .* WHERE status NOT IN \('completed', 'cancelled'\)`).
		WillReturnRows(rows)

	stats, err := repo.Stats(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(12), stats.Total)
	assert.Equal(t, int64(4), stats.InProduction)
	assert.Equal(t, int64(1), stats.Overdue)
}
