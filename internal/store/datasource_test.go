package store

import (
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDatasource(t *testing.T) {
	ds, err := parseDatasource("file:./dev.db")
	require.NoError(t, err)
	assert.Equal(t, ProviderSQLite, ds.provider)
	assert.Equal(t, sqliteDriverName, ds.driver)
	assert.Contains(t, ds.dsn, "./dev.db")

	for _, raw := range []string{"postgres://u:p@localhost:5432/app", "postgresql://localhost/app?sslmode=disable"} {
		ds, err = parseDatasource(raw)
		require.NoError(t, err)
		assert.Equal(t, ProviderPostgres, ds.provider)
		assert.Equal(t, "postgres", ds.driver)
		assert.Equal(t, raw, ds.dsn)
	}

	ds, err = parseDatasource("mysql://root:secret@db:3307/app")
	require.NoError(t, err)
	assert.Equal(t, ProviderMySQL, ds.provider)
	assert.Equal(t, "mysql", ds.driver)

	for _, raw := range []string{"", "file:", "mongodb://localhost/app", "mysql://localhost"} {
		_, err := parseDatasource(raw)
		var initErr *InitializationError
		require.True(t, errors.As(err, &initErr), "%q: %v", raw, err)
		assert.Equal(t, CodeInvalidDatasource, initErr.ErrorCode)
	}
}

func TestMySQLDSN(t *testing.T) {
	dsn, err := mysqlDSN("mysql://root:secret@db/app?charset=utf8mb4")
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "root", cfg.User)
	assert.Equal(t, "secret", cfg.Passwd)
	assert.Equal(t, "tcp", cfg.Net)
	assert.Equal(t, "db:3306", cfg.Addr)
	assert.Equal(t, "app", cfg.DBName)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, "utf8mb4", cfg.Params["charset"])
}

func TestSQLiteDSN(t *testing.T) {
	assert.Contains(t, sqliteDSN("/tmp/a.db"), "/tmp/a.db?")
	assert.Contains(t, sqliteDSN("/tmp/a.db?mode=ro"), "/tmp/a.db?mode=ro&")
}

func TestNewRejectsInvalidDatasource(t *testing.T) {
	_, err := New(ClientOptions{DatasourceURL: "redis://localhost"})
	var initErr *InitializationError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, CodeInvalidDatasource, initErr.ErrorCode)
}
