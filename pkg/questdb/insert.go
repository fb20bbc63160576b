package questdb

import (
	"context"
	"fmt"
	"strings"
)

// MaxRowsPerInsert keeps the bind parameter count of one statement well under
// the postgres wire limit of 65535.
const MaxRowsPerInsert = 1000

// InsertRows writes rows into table with multi-row INSERT statements of at
// most MaxRowsPerInsert rows each. Every row must have len(columns) values.
// It stops at the first failing statement.
func InsertRows(ctx context.Context, client QuestDBClient, table string, columns []string, rows [][]any) error {
	for start := 0; start < len(rows); start += MaxRowsPerInsert {
		chunk := rows[start:min(start+MaxRowsPerInsert, len(rows))]
		sql, args := insertStatement(table, columns, chunk)
		if err := client.Exec(ctx, sql, args...); err != nil {
			return err
		}
	}
	return nil
}

func insertStatement(table string, columns []string, rows [][]any) (string, []any) {
	var (
		sb   strings.Builder
		args = make([]any, 0, len(rows)*len(columns))
	)
	sb.WriteString("INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ") VALUES ")
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j := range columns {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", len(args)+j+1)
		}
		sb.WriteByte(')')
		args = append(args, row...)
	}
	return sb.String(), args
}
