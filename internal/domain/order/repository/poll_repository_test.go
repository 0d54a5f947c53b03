package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestCountRecentPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPollRepository(db)
	since := time.Now().Add(-PendingLookback)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM orders`).
		WithArgs("rest-1", since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountRecentPending("rest-1", since)

	assert.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSince(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPollRepository(db)
	since := time.Now().Add(-time.Minute)
	createdAt := time.Now()

	mock.ExpectQuery(`SELECT id, order_number, status, final_amount, created_at`).
		WithArgs("rest-1", since).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_number", "status", "final_amount", "created_at"}).
			AddRow("order-1", "20260830120000ABCDEF", "PENDING", 41.0, createdAt).
			AddRow("order-2", "20260830120100FEDCBA", "CONFIRMED", 15.0, createdAt))

	orders, err := repo.ListSince("rest-1", since)

	assert.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, "order-1", orders[0].ID)
	assert.Equal(t, 41.0, orders[0].FinalAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSinceEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPollRepository(db)
	since := time.Now()

	mock.ExpectQuery(`SELECT id, order_number, status, final_amount, created_at`).
		WithArgs("rest-1", since).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_number", "status", "final_amount", "created_at"}))

	orders, err := repo.ListSince("rest-1", since)

	assert.NoError(t, err)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}
