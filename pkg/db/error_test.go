package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestDescribe(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "gorm duplicate", err: gorm.ErrDuplicatedKey, want: "duplicate key"},
		{name: "pg duplicate", err: fmt.Errorf("upsert: %w", &pgconn.PgError{Code: "23505"}), want: "duplicate key"},
		{name: "connection failure", err: &pgconn.PgError{Code: "08006"}, want: "database unavailable"},
		{name: "deadline", err: context.DeadlineExceeded, want: "database unavailable"},
		{name: "missing table", err: &pgconn.PgError{Code: "42P01"}, want: "table does not exist, run migrations"},
		{name: "sqlite missing table", err: errors.New("SQL logic error: no such table: orders (1)"), want: "table does not exist, run migrations"},
		{name: "not null", err: &pgconn.PgError{Code: "23502", ColumnName: "order_date"}, want: "missing required column order_date"},
		{name: "check", err: &pgconn.PgError{Code: "23514", ConstraintName: "orders_quantity_check"}, want: "value violates constraint orders_quantity_check"},
		{name: "other pg", err: &pgconn.PgError{Code: "XX000", Message: "internal error"}, want: "internal error"},
		{name: "plain", err: errors.New("boom"), want: "boom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Describe(tc.err))
		})
	}
}

func TestIsDuplicateKeyErrDriverText(t *testing.T) {
	assert.True(t, IsDuplicateKeyErr(errors.New("UNIQUE constraint failed: orders.order_id")))
	assert.True(t, IsDuplicateKeyErr(errors.New("Error 1062 (23000): Duplicate entry")))
	assert.False(t, IsDuplicateKeyErr(errors.New("boom")))
	assert.False(t, IsDuplicateKeyErr(nil))
}

func TestNewTestIsUsable(t *testing.T) {
	conn, err := NewTest()
	assert.NoError(t, err)

	type probe struct{ ID int }
	assert.NoError(t, conn.AutoMigrate(&probe{}))
	assert.NoError(t, conn.Create(&probe{ID: 1}).Error)

	var count int64
	assert.NoError(t, conn.Model(&probe{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
