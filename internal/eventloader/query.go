package eventloader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// postgres caps bind parameters per statement at 65535.
const maxBindParams = 65535

// BuildInsertQuery builds a multi-row INSERT for rows records with one $n
// placeholder per column value. Identifiers are quoted, values are never
// part of the statement text.
func BuildInsertQuery(table string, columns []string, rows int) (string, error) {
	if table == "" {
		return "", fmt.Errorf("empty table name")
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("no columns passed for table %s", table)
	}
	if rows <= 0 {
		return "", fmt.Errorf("invalid number of rows for table %s: %d", table, rows)
	}
	if params := rows * len(columns); params > maxBindParams {
		return "", fmt.Errorf("too many bind parameters for table %s: %d", table, params)
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(pq.QuoteIdentifier(table))
	sb.WriteString("(")
	for i, col := range columns {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(pq.QuoteIdentifier(col))
	}
	sb.WriteString(") VALUES ")

	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(")
		for c := range columns {
			if c > 0 {
				sb.WriteString(",")
			}
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(n))
			n++
		}
		sb.WriteString(")")
	}
	sb.WriteString(";")
	return sb.String(), nil
}

// insertStatement drains b into a statement and its arguments. The row count
// comes from the batch itself so placeholders always match the arguments.
func insertStatement(et EventType, b *Batch) (string, []any, error) {
	args, rows := b.Drain()
	columns := et.Columns()
	if len(args) != rows*len(columns) {
		return "", nil, fmt.Errorf("batch %s holds %d values for %d records", et, len(args), rows)
	}
	query, err := BuildInsertQuery(et.Table(), columns, rows)
	if err != nil {
		return "", nil, err
	}
	return query, args, nil
}
