package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"resume-analyzer/internal/shared/config"
)

// stubOpen makes Connect hand out a sqlmock pool and records the driver name
// and DSN it was asked for.
func stubOpen(t *testing.T) (gotDriver, gotDSN *string) {
	t.Helper()
	mockDB, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	var name, dsn string
	prev := openDB
	openDB = func(driverName, dataSource string) (*sql.DB, error) {
		name, dsn = driverName, dataSource
		return mockDB, nil
	}
	t.Cleanup(func() {
		openDB = prev
		_ = mockDB.Close()
	})
	return &name, &dsn
}

func TestConnectAppliesPoolAndTagsDSN(t *testing.T) {
	driverName, dsn := stubOpen(t)

	opts := DefaultServerOptions().WithPool(config.DBPool{
		MaxOpenConns:    7,
		MaxIdleConns:    3,
		ConnMaxLifetime: 20 * time.Minute,
		PingTimeout:     time.Second,
	})
	pool, err := Connect(context.Background(), "postgres://app@db:5432/resumes", opts)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if got := pool.Stats().MaxOpenConnections; got != 7 {
		t.Fatalf("expected MaxOpenConnections=7, got %d", got)
	}
	if *driverName != "pgx" {
		t.Fatalf("expected pgx driver, got %q", *driverName)
	}
	if *dsn != "postgres://app@db:5432/resumes?application_name="+ApplicationName {
		t.Fatalf("unexpected dsn %q", *dsn)
	}
}

func TestConnectClosesPoolWhenPingFails(t *testing.T) {
	stubOpen(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Connect(ctx, "postgres://db/resumes", DefaultServerOptions())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected wrapped context.Canceled, got %v", err)
	}
}

func TestWithPoolOverridesOnlySetFields(t *testing.T) {
	opts := DefaultServerOptions().WithPool(config.DBPool{MaxIdleConns: 3, PingTimeout: time.Second})
	def := DefaultServerOptions()
	if opts.MaxIdleConns != 3 || opts.PingTimeout != time.Second {
		t.Fatalf("overrides not applied: %+v", opts)
	}
	if opts.MaxOpenConns != def.MaxOpenConns || opts.ConnMaxIdleTime != def.ConnMaxIdleTime {
		t.Fatalf("zero fields should keep defaults: %+v", opts)
	}
}

func TestWithPoolCapsIdleAtOpen(t *testing.T) {
	opts := DefaultMigrateOptions().WithPool(config.DBPool{MaxIdleConns: 4})
	if opts.MaxOpenConns != 1 || opts.MaxIdleConns != 1 {
		t.Fatalf("expected idle capped at 1, got %+v", opts)
	}
}

func TestWithApplicationName(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@db:5432/resumes?sslmode=disable": "postgres://u:p@db:5432/resumes?application_name=resume-analyzer&sslmode=disable",
		"postgres://db/resumes?application_name=psql":    "postgres://db/resumes?application_name=psql",
		"host=db user=u dbname=resumes":                  "host=db user=u dbname=resumes",
	}
	for in, want := range cases {
		if got := withApplicationName(in); got != want {
			t.Errorf("withApplicationName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConnectRejectsEmptyURL(t *testing.T) {
	if _, err := Connect(context.Background(), "  ", DefaultServerOptions()); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestConnectWrapsOpenError(t *testing.T) {
	prev := openDB
	openDB = func(string, string) (*sql.DB, error) { return nil, driver.ErrBadConn }
	t.Cleanup(func() { openDB = prev })

	_, err := Connect(context.Background(), "postgres://example", DefaultServerOptions())
	if !errors.Is(err, driver.ErrBadConn) {
		t.Fatalf("expected wrapped ErrBadConn, got %v", err)
	}
}
