// Package database probes the SQL backends guacenv configures.  The probe is
// a single connect-and-ping with a deadline: it catches wrong credentials or
// an unreachable server before the web application starts, and never
// retries.
//
// Drivers: go-sql-driver/mysql ("mysql") and jackc/pgx ("pgx"), both opened
// through sqlx.
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// Target is what the probe needs to reach one database.
type Target struct {
	Driver   string // "mysql" or "pgx"
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

// DSN renders t in the driver's connection-string format.
func DSN(t Target, timeout time.Duration) (string, error) {
	addr := net.JoinHostPort(t.Host, t.Port)
	switch t.Driver {
	case "mysql":
		c := mysql.NewConfig()
		c.User = t.User
		c.Passwd = t.Password
		c.Net = "tcp"
		c.Addr = addr
		c.DBName = t.Database
		c.Timeout = timeout
		return c.FormatDSN(), nil
	case "pgx":
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(t.User, t.Password),
			Host:   addr,
			Path:   "/" + t.Database,
		}
		if secs := int(timeout / time.Second); secs > 0 {
			u.RawQuery = "connect_timeout=" + strconv.Itoa(secs)
		}
		dsn := u.String()
		if _, err := pgx.ParseConfig(dsn); err != nil {
			return "", fmt.Errorf("postgres dsn: %w", err)
		}
		return dsn, nil
	default:
		return "", fmt.Errorf("unsupported driver %q", t.Driver)
	}
}

// Open returns a *sqlx.DB sized for a one-off probe: one connection, no idle
// pool.
func Open(driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(time.Minute)
	return db, nil
}

// Ping checks db once within timeout.
func Ping(ctx context.Context, db *sqlx.DB, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return db.PingContext(ctx)
}

// Probe opens t, pings it once, and closes it.
func Probe(ctx context.Context, t Target, timeout time.Duration) error {
	dsn, err := DSN(t, timeout)
	if err != nil {
		return err
	}
	db, err := Open(t.Driver, dsn)
	if err != nil {
		return fmt.Errorf("open %s: %w", t.Driver, err)
	}
	defer db.Close()

	if err := Ping(ctx, db, timeout); err != nil {
		return fmt.Errorf("ping %s at %s: %w", t.Driver, net.JoinHostPort(t.Host, t.Port), err)
	}
	return nil
}
