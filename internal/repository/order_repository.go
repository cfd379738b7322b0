package repository

import (
	"context"
	"time"

	"print_shop_sync/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderSyncedColumns are the platform-sourced columns a re-sync may overwrite.
// Operator-owned columns (notes, assigned_to, priority) are deliberately
// absent; the sync path must never clobber them.
var orderSyncedColumns = []string{
	"customer_name",
	"customer_email",
	"quantity",
	"decoration_method",
	"due_date",
	"status",
	"order_details",
	"synced_at",
	"updated_at",
}

type OrderRepository interface {
	Upsert(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filters models.OrderFilters, limit, offset int) ([]models.Order, error)
	UpdateOperatorFields(ctx context.Context, id string, update models.OrderUpdate) (*models.Order, error)
	Stats(ctx context.Context) (*models.OrderStats, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Upsert inserts or updates the row identified by (order_number, platform).
// Running it any number of times with the same candidate converges to one row
// whose platform-sourced fields equal the last write.
func (r *orderRepository) Upsert(ctx context.Context, order *models.Order) error {
	now := time.Now()
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	if order.DueDate.IsZero() {
		order.DueDate = now
	}
	order.SyncedAt = now

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_number"}, {Name: "platform"}},
			DoUpdates: clause.AssignmentColumns(orderSyncedColumns),
		}).
		Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filters models.OrderFilters, limit, offset int) ([]models.Order, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{})

	if filters.Platform != nil {
		q = q.Where("platform = ?", *filters.Platform)
	}
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.DecorationMethod != nil {
		q = q.Where("decoration_method = ?", *filters.DecorationMethod)
	}
	if filters.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *filters.AssignedTo)
	}
	if filters.Priority != nil {
		q = q.Where("priority = ?", *filters.Priority)
	}
	if filters.DateFrom != nil {
		q = q.Where("due_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		q = q.Where("due_date <= ?", *filters.DateTo)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		q = q.Where("order_number ILIKE ? OR customer_name ILIKE ?", pattern, pattern)
	}

	var orders []models.Order
	err := q.Order("priority DESC, due_date ASC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	return orders, err
}

// UpdateOperatorFields applies operator-owned mutations only. It returns the
// reloaded row, or gorm.ErrRecordNotFound for an unknown id.
func (r *orderRepository) UpdateOperatorFields(ctx context.Context, id string, update models.OrderUpdate) (*models.Order, error) {
	values := map[string]interface{}{}
	if update.Status != nil {
		values["status"] = *update.Status
	}
	if update.AssignedTo != nil {
		if *update.AssignedTo == "" {
			values["assigned_to"] = nil
		} else {
			values["assigned_to"] = *update.AssignedTo
		}
	}
	if update.Priority != nil {
		values["priority"] = *update.Priority
	}
	if update.Notes != nil {
		values["notes"] = *update.Notes
	}
	if len(values) == 0 {
		return r.GetByID(ctx, id)
	}
	values["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *orderRepository) Stats(ctx context.Context) (*models.OrderStats, error) {
	var stats models.OrderStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status IN ('printing', 'embroidery')) AS in_production,
			COUNT(*) FILTER (WHERE status = 'qc') AS in_qc,
			COUNT(*) FILTER (WHERE status = 'packing') AS packing,
			COUNT(*) FILTER (WHERE status = 'shipped') AS shipped,
			COUNT(*) FILTER (WHERE priority = true) AS priority,
			COUNT(*) FILTER (WHERE due_date < NOW()) AS overdue
		FROM orders
		WHERE status NOT IN ('completed', 'cancelled')
	`).Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
