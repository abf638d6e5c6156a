package store

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ident quotes name as an identifier when passed as a raw query argument.
func Ident(name string) clause.Column { return clause.Column{Name: name} }

// QueryRaw runs a parameterised query. Placeholders are written as ? and
// rewritten for the dialect. Each row is returned as a column map.
func (c *Client) QueryRaw(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	var rows []map[string]any
	err := c.run(ctx, "", "queryRaw", func(db *gorm.DB) error {
		return db.Raw(query, rawArgs(args)...).Scan(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return normalizeRows(rows), nil
}

// QueryRawScan runs a parameterised query and scans the rows into dest,
// which is a pointer to a struct or a slice of structs.
func (c *Client) QueryRawScan(ctx context.Context, dest any, query string, args ...any) error {
	return c.run(ctx, "", "queryRaw", func(db *gorm.DB) error {
		return db.Raw(query, rawArgs(args)...).Scan(dest).Error
	})
}

// ExecuteRaw runs a parameterised statement and returns the affected row count.
func (c *Client) ExecuteRaw(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	err := c.run(ctx, "", "executeRaw", func(db *gorm.DB) error {
		res := db.Exec(query, rawArgs(args)...)
		n = res.RowsAffected
		return res.Error
	})
	return n, err
}

// QueryRawUnsafe sends query to the driver as is. Placeholders must use the
// driver's native syntax.
func (c *Client) QueryRawUnsafe(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	var out []map[string]any
	err := c.run(ctx, "", "queryRawUnsafe", func(db *gorm.DB) error {
		rows, err := db.Statement.ConnPool.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = scanMaps(rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return normalizeRows(out), nil
}

// ExecuteRawUnsafe sends statement to the driver as is.
func (c *Client) ExecuteRawUnsafe(ctx context.Context, statement string, args ...any) (int64, error) {
	var n int64
	err := c.run(ctx, "", "executeRawUnsafe", func(db *gorm.DB) error {
		res, err := db.Statement.ConnPool.ExecContext(ctx, statement, args...)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	return n, err
}

func rawArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		switch a.(type) {
		case clause.Column, clause.Table:
			out[i] = a
		default:
			out[i] = bindValue(a)
		}
	}
	return out
}

func scanMaps(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// normalizeRows turns driver []byte values into strings.
func normalizeRows(rows []map[string]any) []map[string]any {
	for _, row := range rows {
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				row[k] = string(b)
			}
		}
	}
	return rows
}
