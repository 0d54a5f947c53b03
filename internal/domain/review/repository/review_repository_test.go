package repository

import (
	"errors"
	"regexp"
	"testing"

	"github.com/guilherme-ufscar/restaurante-sub001/internal/domain/review/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newMockGorm 与生产配置一致地开启 TranslateError，
// 驱动层的唯一索引冲突必须翻译成 gorm.ErrDuplicatedKey
func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}
	return gdb, mock
}

func TestCreateAndRecalcDuplicate(t *testing.T) {
	gdb, mock := newMockGorm(t)
	repo := NewReviewRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "reviews"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.CreateAndRecalc(&model.Review{
		OrderID:      "order-1",
		UserID:       "user-1",
		RestaurantID: "rest-1",
		Rating:       5,
	})

	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey),
		"unique violation should translate to gorm.ErrDuplicatedKey, got: %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAndRecalcCommits(t *testing.T) {
	gdb, mock := newMockGorm(t)
	repo := NewReviewRepository(gdb)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "reviews"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("review-1"))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count`)).
		WillReturnRows(sqlmock.NewRows([]string{"avg", "count"}).AddRow(4.5, 2))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "restaurants"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CreateAndRecalc(&model.Review{
		OrderID:      "order-1",
		UserID:       "user-1",
		RestaurantID: "rest-1",
		Rating:       4,
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
