package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/eduplatform-api/pkg/errors"
)

type txProviderMock struct {
	db   *sqlx.DB
	mock sqlmock.Sqlmock
}

func newTxProviderMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlxdb, mock: mock}, mock
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}

func TestWithTxCommits(t *testing.T) {
	provider, mock := newTxProviderMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	called := false
	err := withTx(context.Background(), provider, func(tx *sqlx.Tx) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	provider, mock := newTxProviderMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := withTx(context.Background(), provider, func(tx *sqlx.Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxBeginFailure(t *testing.T) {
	provider, mock := newTxProviderMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("no conn"))

	err := withTx(context.Background(), provider, func(tx *sqlx.Tx) error { return nil })
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}

func TestWithTxMissingProvider(t *testing.T) {
	err := withTx(context.Background(), nil, func(tx *sqlx.Tx) error { return nil })
	assert.True(t, appErrors.Is(err, appErrors.ErrInternal))
}
