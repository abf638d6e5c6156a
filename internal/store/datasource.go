package store

import (
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Provider identifies the database behind a datasource URL.
type Provider string

const (
	ProviderSQLite   Provider = "sqlite"
	ProviderPostgres Provider = "postgresql"
	ProviderMySQL    Provider = "mysql"
)

type datasource struct {
	provider Provider
	driver   string
	dsn      string
}

func invalidDatasource(format string, args ...any) *InitializationError {
	return &InitializationError{ErrorCode: CodeInvalidDatasource, Message: fmt.Sprintf(format, args...)}
}

// parseDatasource maps a datasource URL onto a database/sql driver and DSN.
func parseDatasource(raw string) (datasource, error) {
	switch {
	case raw == "":
		return datasource{}, invalidDatasource("datasource URL is empty")
	case strings.HasPrefix(raw, "file:"):
		path := strings.TrimPrefix(raw, "file:")
		if path == "" {
			return datasource{}, invalidDatasource("sqlite datasource %q has no path", raw)
		}
		return datasource{provider: ProviderSQLite, driver: sqliteDriverName, dsn: sqliteDSN(path)}, nil
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		if _, err := url.Parse(raw); err != nil {
			return datasource{}, invalidDatasource("invalid postgres URL: %v", err)
		}
		return datasource{provider: ProviderPostgres, driver: "postgres", dsn: raw}, nil
	case strings.HasPrefix(raw, "mysql://"):
		dsn, err := mysqlDSN(raw)
		if err != nil {
			return datasource{}, invalidDatasource("invalid mysql URL: %v", err)
		}
		return datasource{provider: ProviderMySQL, driver: "mysql", dsn: dsn}, nil
	}
	return datasource{}, invalidDatasource("the URL must start with the protocol `file:`, `postgresql://` or `mysql://`")
}

func mysqlDSN(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	if u.Port() == "" {
		cfg.Addr = net.JoinHostPort(u.Hostname(), "3306")
	}
	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	if cfg.DBName == "" {
		return "", fmt.Errorf("missing database name")
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	for k, v := range u.Query() {
		if cfg.Params == nil {
			cfg.Params = map[string]string{}
		}
		cfg.Params[k] = v[0]
	}
	return cfg.FormatDSN(), nil
}

// dialector wraps an open *sql.DB in the gorm dialect of the provider.
func dialector(provider Provider, db *sql.DB) (gorm.Dialector, error) {
	switch provider {
	case ProviderSQLite:
		return &sqlite.Dialector{DriverName: sqliteDriverName, Conn: db}, nil
	case ProviderPostgres:
		return postgres.New(postgres.Config{Conn: db}), nil
	case ProviderMySQL:
		return gormmysql.New(gormmysql.Config{Conn: db, SkipInitializeWithVersion: true}), nil
	}
	return nil, &InitializationError{ErrorCode: CodeInvalidDatasource, Message: fmt.Sprintf("unsupported provider %q", provider)}
}
