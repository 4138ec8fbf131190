// internal/database/database_test.go
//
// DSN rendering and the ping probe, the latter against sqlmock.

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN_MySQL(t *testing.T) {
	dsn, err := DSN(Target{
		Driver: "mysql", Host: "mysql.internal", Port: "3306",
		User: "guac", Password: "p@ss:word", Database: "guacamole_db",
	}, 5*time.Second)
	require.NoError(t, err)

	c, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "guac", c.User)
	assert.Equal(t, "p@ss:word", c.Passwd)
	assert.Equal(t, "tcp", c.Net)
	assert.Equal(t, "mysql.internal:3306", c.Addr)
	assert.Equal(t, "guacamole_db", c.DBName)
	assert.Equal(t, 5*time.Second, c.Timeout)
}

func TestDSN_Postgres(t *testing.T) {
	dsn, err := DSN(Target{
		Driver: "pgx", Host: "pg", Port: "5432",
		User: "guac", Password: "s3cr/et", Database: "guacamole_db",
	}, 3*time.Second)
	require.NoError(t, err)

	c, err := pgx.ParseConfig(dsn)
	require.NoError(t, err)
	assert.Equal(t, "pg", c.Host)
	assert.Equal(t, uint16(5432), c.Port)
	assert.Equal(t, "guac", c.User)
	assert.Equal(t, "s3cr/et", c.Password)
	assert.Equal(t, "guacamole_db", c.Database)
	assert.Equal(t, 3*time.Second, c.ConnectTimeout)
}

func TestDSN_UnknownDriver(t *testing.T) {
	_, err := DSN(Target{Driver: "oracle"}, time.Second)
	assert.ErrorContains(t, err, "unsupported driver")
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectPing()
	if err := Ping(context.Background(), sqlx.NewDb(db, "sqlmock"), time.Second); err != nil {
		t.Fatalf("Ping error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	refused := errors.New("connection refused")
	mock.ExpectPing().WillReturnError(refused)
	err = Ping(context.Background(), sqlx.NewDb(db, "sqlmock"), time.Second)
	if !errors.Is(err, refused) {
		t.Fatalf("err = %v, want %v", err, refused)
	}
}
