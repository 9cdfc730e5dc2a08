package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// sqlLog keeps every statement gorm traces, with its arguments inlined.
type sqlLog struct {
	mu         sync.Mutex
	statements []string
}

func (l *sqlLog) LogMode(gormlogger.LogLevel) gormlogger.Interface { return l }
func (l *sqlLog) Info(context.Context, string, ...interface{})     {}
func (l *sqlLog) Warn(context.Context, string, ...interface{})     {}
func (l *sqlLog) Error(context.Context, string, ...interface{})    {}

func (l *sqlLog) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	stmt, _ := fc()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.statements = append(l.statements, stmt)
}

func (l *sqlLog) last(t *testing.T) string {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	require.NotEmpty(t, l.statements, "no statement was traced")
	return l.statements[len(l.statements)-1]
}

type execCall struct {
	query string
	args  []interface{}
}

type execResult int64

func (r execResult) LastInsertId() (int64, error) { return 0, nil }
func (r execResult) RowsAffected() (int64, error) { return int64(r), nil }

// scriptedPool stands in for a MySQL connection. Exec statements are
// recorded and report the row count affected returns; reads are refused.
type scriptedPool struct {
	mu        sync.Mutex
	execs     []execCall
	affected  func(query string, args []interface{}) int64
	commits   int
	rollbacks int
}

func (p *scriptedPool) PrepareContext(context.Context, string) (*sql.Stmt, error) {
	return nil, errors.New("prepare not scripted")
}

func (p *scriptedPool) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.execs = append(p.execs, execCall{query: query, args: args})
	if p.affected == nil {
		return execResult(1), nil
	}
	return execResult(p.affected(query, args)), nil
}

func (p *scriptedPool) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("query not scripted")
}

func (p *scriptedPool) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (p *scriptedPool) BeginTx(context.Context, *sql.TxOptions) (gorm.ConnPool, error) {
	return &scriptedTx{pool: p}, nil
}

func (p *scriptedPool) queries(prefix string) []execCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []execCall
	for _, call := range p.execs {
		if strings.HasPrefix(call.query, prefix) {
			out = append(out, call)
		}
	}
	return out
}

type scriptedTx struct {
	pool *scriptedPool
}

func (tx *scriptedTx) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return tx.pool.PrepareContext(ctx, query)
}

func (tx *scriptedTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return tx.pool.ExecContext(ctx, query, args...)
}

func (tx *scriptedTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return tx.pool.QueryContext(ctx, query, args...)
}

func (tx *scriptedTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return tx.pool.QueryRowContext(ctx, query, args...)
}

func (tx *scriptedTx) Commit() error {
	tx.pool.mu.Lock()
	defer tx.pool.mu.Unlock()
	tx.pool.commits++
	return nil
}

func (tx *scriptedTx) Rollback() error {
	tx.pool.mu.Lock()
	defer tx.pool.mu.Unlock()
	tx.pool.rollbacks++
	return nil
}

func openMySQL(t *testing.T, pool *scriptedPool, dryRun bool) (*gorm.DB, *sqlLog) {
	t.Helper()
	log := &sqlLog{}
	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      pool,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               dryRun,
		DisableAutomaticPing: true,
		Logger:               log,
	})
	require.NoError(t, err)
	return db, log
}

// dryRunDB renders SQL without sending it anywhere.
func dryRunDB(t *testing.T) (*gorm.DB, *sqlLog) {
	t.Helper()
	return openMySQL(t, &scriptedPool{}, true)
}
