package txmanager

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commitFailDriver драйвер, чей Commit возвращает заданные ошибки по очереди.
// Позволяет воспроизвести конфликт сериализации, который Postgres
// сообщает на этапе COMMIT.
type commitFailDriver struct {
	commitErrs []error
	commits    int
}

func (d *commitFailDriver) Open(string) (driver.Conn, error) { return &commitFailConn{d: d}, nil }

type commitFailConn struct{ d *commitFailDriver }

func (c *commitFailConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare is not supported")
}
func (c *commitFailConn) Close() error              { return nil }
func (c *commitFailConn) Begin() (driver.Tx, error) { return &commitFailTx{d: c.d}, nil }

func (c *commitFailConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) {
	return &commitFailTx{d: c.d}, nil
}

type commitFailTx struct{ d *commitFailDriver }

func (t *commitFailTx) Commit() error {
	i := t.d.commits
	t.d.commits++
	if i < len(t.d.commitErrs) {
		return t.d.commitErrs[i]
	}
	return nil
}

func (t *commitFailTx) Rollback() error { return nil }

func newTestManager(t *testing.T, name string, drv *commitFailDriver) *TransactionManager {
	t.Helper()
	sql.Register(name, drv)
	db, err := sql.Open(name, "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTransactionManager(db)
}

func TestDoSerializable_RetriesCommitSerializationFailure(t *testing.T) {
	serErr := &pq.Error{Code: "40001"}
	drv := &commitFailDriver{commitErrs: []error{serErr, serErr}}
	m := newTestManager(t, "txmanager-retry-40001", drv)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 3, drv.commits)
}

func TestDoSerializable_RetriesExhausted(t *testing.T) {
	serErr := &pq.Error{Code: "40001"}
	drv := &commitFailDriver{commitErrs: []error{serErr, serErr, serErr}}
	m := newTestManager(t, "txmanager-retry-exhausted", drv)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransaction)
	// Цепочка ошибки сохраняет исходный код Postgres
	assert.True(t, isRetryable(err))
	assert.Equal(t, serializableRetries, calls)
}

func TestDoSerializable_NonRetryableCommitError(t *testing.T) {
	drv := &commitFailDriver{commitErrs: []error{errors.New("disk full")}}
	m := newTestManager(t, "txmanager-no-retry", drv)

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransaction)
	assert.Equal(t, 1, calls)
}

func TestDoSerializable_RetriesFnSerializationFailure(t *testing.T) {
	drv := &commitFailDriver{}
	m := newTestManager(t, "txmanager-retry-fn", drv)

	// Конфликт, пойманный на чтении внутри транзакции, приходит из
	// репозитория уже обернутым в его sentinel
	repoSentinel := errors.New("storage: failed to execute query")
	wrapped := fmt.Errorf("%w: Create - execute insert: %w", repoSentinel, &pq.Error{Code: "40001"})

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return wrapped
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestIsRetryable(t *testing.T) {
	serErr := &pq.Error{Code: "40001"}

	assert.True(t, isRetryable(serErr))
	assert.True(t, isRetryable(&pq.Error{Code: "40P01"}))
	assert.False(t, isRetryable(&pq.Error{Code: "23505"}))
	assert.False(t, isRetryable(errors.New("boom")))

	// Обертки не должны обрывать цепочку до кода Postgres
	assert.True(t, isRetryable(fmt.Errorf("%w: commit: %w", ErrTransaction, serErr)))
	assert.True(t, isRetryable(fmt.Errorf("%w: Create - execute insert: %w",
		errors.New("storage sentinel"), serErr)))
}
