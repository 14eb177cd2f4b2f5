package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-RepairService/pkg/dbmetrics"
)

const (
	// DefaultAcquireTimeout сколько ждем начала транзакции (свободное соединение + BEGIN)
	DefaultAcquireTimeout = 10 * time.Second

	// DefaultExecTimeout сколько максимум может выполняться вся транзакция
	DefaultExecTimeout = 15 * time.Second

	// DefaultSerializableRetries сколько раз повторяем транзакцию при serialization_failure
	DefaultSerializableRetries = 3

	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

var (
	// ErrTimeout транзакция не успела начаться или выполниться за отведенное время
	ErrTimeout = errors.New("txmanager: transaction timeout")

	// ErrBeginTx ошибка начала транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommit ошибка коммита
	ErrCommit = errors.New("txmanager: failed to commit transaction")

	// ErrSerialization транзакция не прошла из-за конкурентного доступа (повторы исчерпаны)
	ErrSerialization = errors.New("txmanager: serialization failure")
)

// Beginner источник транзакций (*dbmetrics.DB)
type Beginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функцию в транзакции, передавая её через контекст
type TransactionManager struct {
	db             Beginner
	acquireTimeout time.Duration
	execTimeout    time.Duration
	retries        int
}

// Option настройка менеджера
type Option func(*TransactionManager)

// WithTimeouts задает таймауты ожидания и выполнения транзакции
func WithTimeouts(acquire, exec time.Duration) Option {
	return func(m *TransactionManager) {
		if acquire > 0 {
			m.acquireTimeout = acquire
		}
		if exec > 0 {
			m.execTimeout = exec
		}
	}
}

// WithSerializableRetries задает число повторов при serialization_failure
func WithSerializableRetries(n int) Option {
	return func(m *TransactionManager) {
		if n >= 0 {
			m.retries = n
		}
	}
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db Beginner, opts ...Option) *TransactionManager {
	m := &TransactionManager{
		db:             db,
		acquireTimeout: DefaultAcquireTimeout,
		execTimeout:    DefaultExecTimeout,
		retries:        DefaultSerializableRetries,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию (READ COMMITTED)
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции
// При serialization_failure / deadlock транзакция повторяется целиком,
// пока не кончатся попытки или общее время
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	execCtx, cancel := context.WithTimeout(ctx, m.execTimeout)
	defer cancel()

	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}

	var err error
	for attempt := 0; attempt <= m.retries; attempt++ {
		err = m.runWithin(execCtx, opts, fn)
		if !IsSerializationFailure(err) {
			return err
		}
	}

	return fmt.Errorf("%w: retries exhausted: %v", ErrSerialization, err)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	execCtx, cancel := context.WithTimeout(ctx, m.execTimeout)
	defer cancel()

	return m.runWithin(execCtx, opts, fn)
}

// runWithin выполняет одну попытку транзакции в контексте с уже выставленным execTimeout
func (m *TransactionManager) runWithin(execCtx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// Контекст транзакции отменяется таймером, если BEGIN не уложился в acquireTimeout.
	// После успешного BEGIN таймер останавливается и остается только execTimeout.
	txCtx, cancelTx := context.WithCancel(execCtx)
	defer cancelTx()

	acquireTimer := time.AfterFunc(m.acquireTimeout, cancelTx)

	tx, err := m.db.BeginTx(txCtx, opts)
	acquired := acquireTimer.Stop()
	if err != nil {
		if !acquired || errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: begin: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrBeginTx, err)
	}
	if !acquired {
		_ = tx.Rollback()
		return fmt.Errorf("%w: begin took longer than %s", ErrTimeout, m.acquireTimeout)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(dbmetrics.WithTx(txCtx, tx)); err != nil {
		_ = tx.Rollback()
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if IsSerializationFailure(err) {
			return err
		}
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: commit: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrCommit, err)
	}

	return nil
}

// IsSerializationFailure проверяет, что ошибка - конфликт сериализации PostgreSQL
// Работает только если pq.Error не потерян при оборачивании (%w)
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqSerializationFailure || pqErr.Code == pqDeadlockDetected
	}
	return false
}
