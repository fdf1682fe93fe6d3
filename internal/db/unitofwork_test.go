package db_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/circusagent/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openUoW(t *testing.T) (*sql.DB, *db.SQLiteUnitOfWork) {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database, db.NewSQLiteUnitOfWork(database)
}

func insertFestival(ctx context.Context, tx db.DBTX, id, name string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO festivals (id, name, created_at, updated_at)
		VALUES (?, ?, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`, id, name)
	return err
}

func festivalName(t *testing.T, database *sql.DB, id string) (string, bool) {
	t.Helper()
	var name string
	err := database.QueryRow(`SELECT name FROM festivals WHERE id = ?`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false
	}
	require.NoError(t, err)
	return name, true
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	database, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertFestival(ctx, tx, "f1", "Fira Tàrrega")
	})
	require.NoError(t, err)

	name, found := festivalName(t, database, "f1")
	assert.True(t, found)
	assert.Equal(t, "Fira Tàrrega", name)
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	database, uow := openUoW(t)
	sentinel := errors.New("dispatch failed")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertFestival(ctx, tx, "f2", "Aurillac"); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, found := festivalName(t, database, "f2")
	assert.False(t, found, "row should not exist after rollback")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	database, uow := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertFestival(ctx, tx, "f3", "Namur en Mai")
			panic("boom")
		})
	})

	_, found := festivalName(t, database, "f3")
	assert.False(t, found, "row should not exist after panic rollback")
}

func TestWithinTx_ConstraintErrorPropagates(t *testing.T) {
	_, uow := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertFestival(ctx, tx, "f4", "One"); err != nil {
			return err
		}
		return insertFestival(ctx, tx, "f4", "Two")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed")
}
