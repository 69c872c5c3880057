package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopkart/orders-service/internal/app/orders/entity"
	"shopkart/pkg/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	serviceName = "orders-service"

	// uniqueViolation SQLSTATE нарушения уникального индекса
	uniqueViolation = "23505"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository создает новый репозиторий заказов
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create создает заказ; позиции сохраняются через ассоциацию Items
func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "orders")
	defer timer.ObserveDuration()

	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// CreatePaid сохраняет платеж и заказ атомарно.
// Повторная верификация того же платежа дает ErrDuplicatePayment.
func (r *orderRepository) CreatePaid(ctx context.Context, order *entity.Order, payment *entity.Payment) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "payments")
	defer timer.ObserveDuration()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		order.PaymentID = &payment.ID
		return tx.Create(order).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicatePayment
		}
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create paid order: %w", err)
	}

	return nil
}

// GetByID получает заказ с позициями
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "orders")
	defer timer.ObserveDuration()

	var order entity.Order
	result := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get order: %w", result.Error)
	}

	return &order, nil
}

// ListByUser заказы пользователя. Search ищет подстроку в названиях позиций
// без учета регистра, OrderStatus сравнивается точно.
func (r *orderRepository) ListByUser(ctx context.Context, userID string, filter entity.OrderFilter) ([]entity.Order, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "orders")
	defer timer.ObserveDuration()

	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID)

	if filter.OrderStatus != "" {
		query = query.Where("order_status = ?", filter.OrderStatus)
	}
	if filter.Search != "" {
		query = query.Where(
			"id IN (?)",
			r.db.Model(&entity.OrderItem{}).Select("order_id").Where("name ILIKE ?", "%"+escapeLike(filter.Search)+"%"),
		)
	}

	orders := []entity.Order{}
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to list user orders: %w", err)
	}

	return orders, nil
}

// List все заказы (admin)
func (r *orderRepository) List(ctx context.Context) ([]entity.Order, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "orders")
	defer timer.ObserveDuration()

	orders := []entity.Order{}
	if err := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// UpdateStatus сохраняет статус и отметки времени переходов
func (r *orderRepository) UpdateStatus(ctx context.Context, order *entity.Order) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "orders")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).
		Model(&entity.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"order_status":  order.OrderStatus,
			"processing_at": order.ProcessingAt,
			"shipped_at":    order.ShippedAt,
			"delivered_at":  order.DeliveredAt,
			"cancelled_at":  order.CancelledAt,
		})

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update order: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// Delete удаляет заказ; позиции удаляются через CASCADE
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "orders")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).Delete(&entity.Order{}, "id = ?", id)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return fmt.Errorf("failed to delete order: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
