package backend

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Dump writes the schema (SQLite only) and every row of the backend tables
// as SQL statements.
func Dump(db *gorm.DB, w io.Writer) error {
	tables, err := TableNames(db)
	if err != nil {
		return err
	}
	sqliteSchema := db.Dialector.Name() == "sqlite"

	for _, table := range tables {
		if sqliteSchema {
			var createSQL string
			err := db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&createSQL).Error
			if err != nil {
				return fmt.Errorf("schema of %s: %w", table, err)
			}
			if createSQL != "" {
				if _, err := fmt.Fprintf(w, "%s;\n", createSQL); err != nil {
					return fmt.Errorf("write schema of %s: %w", table, err)
				}
			}
		}
		if err := dumpRows(db, w, table); err != nil {
			return fmt.Errorf("rows of %s: %w", table, err)
		}
	}
	return nil
}

func dumpRows(db *gorm.DB, w io.Writer, table string) error {
	rows, err := db.Table(table).Unscoped().Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return err
	}
	values := make([]interface{}, len(columns))
	ptrs := make([]interface{}, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		literals := make([]string, len(values))
		for i, v := range values {
			literals[i] = sqlLiteral(v)
		}
		_, err := fmt.Fprintf(w, "INSERT INTO %s (%s) VALUES (%s);\n", table, strings.Join(columns, ","), strings.Join(literals, ","))
		if err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	return rows.Err()
}

func sqlLiteral(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case time.Time:
		return quote(v.Format("2006-01-02 15:04:05.999999999-07:00"))
	case []byte:
		return quote(string(v))
	default:
		return quote(fmt.Sprintf("%v", v))
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
