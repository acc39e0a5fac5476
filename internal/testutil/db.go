// Package testutil provides a stub database handle for service tests.
// Services open and commit transactions on *sqlx.DB while the
// repositories under test are fakes, so the driver only has to support
// Begin/Commit/Rollback.
package testutil

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"

	"github.com/jmoiron/sqlx"
)

const driverName = "stubtx"

var registerOnce sync.Once

type stubDriver struct{}

func (stubDriver) Open(name string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("stub driver does not execute statements")
}
func (stubConn) Close() error              { return nil }
func (stubConn) Begin() (driver.Tx, error) { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

// NewFakeDB returns a sqlx handle whose transactions are no-ops.
func NewFakeDB() *sqlx.DB {
	registerOnce.Do(func() {
		sql.Register(driverName, stubDriver{})
	})

	db, err := sql.Open(driverName, "")
	if err != nil {
		panic(err)
	}
	return sqlx.NewDb(db, driverName)
}
