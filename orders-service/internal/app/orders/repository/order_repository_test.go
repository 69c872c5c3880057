package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"shopkart/orders-service/internal/app/orders/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OrderRepositoryTestSuite тестовый suite для PostgreSQL repository
type OrderRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  OrderRepository
	sqlDB *sql.DB
}

func TestOrderRepositorySuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryTestSuite))
}

func (s *OrderRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewOrderRepository(s.db)
}

func (s *OrderRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

// ===================== GetByID =====================

func (s *OrderRepositoryTestSuite) TestGetByID_WithItems() {
	orderID := uuid.New()
	itemID := uuid.New()

	orderRows := sqlmock.NewRows([]string{"id", "user_id", "payment_method", "total_amount", "order_status", "created_at"}).
		AddRow(orderID.String(), "64b7f0c2a1d3e4f5a6b7c8d9", entity.PaymentMethodCOD, 2998.0, "Ordered", time.Now())
	itemRows := sqlmock.NewRows([]string{"id", "order_id", "product_id", "name", "price", "quantity"}).
		AddRow(itemID.String(), orderID.String(), "64b7f0c2a1d3e4f5a6b7c001", "Kettle", 1499.0, 2)

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE id = $1`)).
		WillReturnRows(orderRows)
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_items" WHERE "order_items"."order_id" = $1`)).
		WithArgs(orderID.String()).
		WillReturnRows(itemRows)

	order, err := s.repo.GetByID(context.Background(), orderID)

	s.Require().NoError(err)
	s.Equal(orderID, order.ID)
	s.Equal(entity.OrderStatusOrdered, order.OrderStatus)
	s.Require().Len(order.Items, 1)
	s.Equal("Kettle", order.Items[0].Name)
	s.Equal(2, order.Items[0].Quantity)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepositoryTestSuite) TestGetByID_NotFound() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	order, err := s.repo.GetByID(context.Background(), uuid.New())

	s.Nil(order)
	s.ErrorIs(err, ErrOrderNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepositoryTestSuite) TestGetByID_DBError() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE id = $1`)).
		WillReturnError(sql.ErrConnDone)

	order, err := s.repo.GetByID(context.Background(), uuid.New())

	s.Nil(order)
	s.Error(err)
	s.Contains(err.Error(), "failed to get order")
}

// ===================== List =====================

func (s *OrderRepositoryTestSuite) TestList_Empty() {
	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" ORDER BY created_at DESC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	orders, err := s.repo.List(context.Background())

	s.NoError(err)
	s.NotNil(orders)
	s.Empty(orders)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== CreatePaid =====================

func (s *OrderRepositoryTestSuite) TestCreatePaid_DuplicatePayment() {
	order := &entity.Order{ID: uuid.New(), UserID: "64b7f0c2a1d3e4f5a6b7c8d9"}
	payment := &entity.Payment{ID: uuid.New(), RazorpayPaymentID: "pay_P1"}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "payments"`)).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "idx_payments_razorpay_payment_id"})
	s.mock.ExpectRollback()

	err := s.repo.CreatePaid(context.Background(), order, payment)

	s.ErrorIs(err, ErrDuplicatePayment)
	s.Nil(order.PaymentID)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== UpdateStatus / Delete =====================

func (s *OrderRepositoryTestSuite) TestUpdateStatus_Success() {
	now := time.Now()
	order := &entity.Order{ID: uuid.New(), OrderStatus: entity.OrderStatusShipped, ShippedAt: &now}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	err := s.repo.UpdateStatus(context.Background(), order)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepositoryTestSuite) TestUpdateStatus_NotFound() {
	order := &entity.Order{ID: uuid.New(), OrderStatus: entity.OrderStatusProcessing}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	err := s.repo.UpdateStatus(context.Background(), order)

	s.ErrorIs(err, ErrOrderNotFound)
}

func (s *OrderRepositoryTestSuite) TestDelete() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "orders" WHERE id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	s.NoError(s.repo.Delete(context.Background(), uuid.New()))
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *OrderRepositoryTestSuite) TestDelete_NotFound() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "orders" WHERE id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	s.ErrorIs(s.repo.Delete(context.Background(), uuid.New()), ErrOrderNotFound)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "kettle", escapeLike("kettle"))
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLike(`c:\dir`))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}
