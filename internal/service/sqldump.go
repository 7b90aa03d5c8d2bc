package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"yingcang/pic-api/internal/model"

	"gorm.io/gorm"
)

var ErrUnsafeSQL = errors.New("backup contains a forbidden statement")

// Everything that could mutate or reshape the schema outside of plain
// inserts aborts the import, matching on whole words only so values
// like "UPDATED" pass through.
var forbiddenSQL = regexp.MustCompile(`\b(DROP|DELETE|TRUNCATE|UPDATE|ALTER|CREATE|REPLACE)\b`)

// SQLTransfer dumps the database to INSERT statements and restores it
// from such a dump
type SQLTransfer struct {
	DB *gorm.DB
}

func NewSQLTransfer(db *gorm.DB) *SQLTransfer {
	return &SQLTransfer{DB: db}
}

// Dump writes one INSERT statement per row for every application
// table, preceded by a comment header per table
func (s *SQLTransfer) Dump(w io.Writer) error {
	for _, t := range model.Tables() {
		if _, err := fmt.Fprintf(w, "-- Table %s\n", t.Name); err != nil {
			return err
		}

		if err := s.dumpTable(w, t.Name); err != nil {
			return err
		}

		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLTransfer) dumpTable(w io.Writer, table string) error {
	rows, err := s.DB.Raw("SELECT * FROM " + table).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	scan := make([]any, len(cols))
	for i := range scan {
		scan[i] = new(any)
	}

	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return err
		}

		vals := make([]string, len(cols))
		for i, cell := range scan {
			vals[i] = sqlLiteral(*cell.(*any))
		}

		_, err := fmt.Fprintf(w, "INSERT INTO %s (%s) VALUES (%s);\n",
			table, strings.Join(cols, ", "), strings.Join(vals, ", "))
		if err != nil {
			return err
		}
	}

	return rows.Err()
}

// Every non-NULL value is written as a quoted string, which both
// sqlite and postgres coerce back on insert
func sqlLiteral(v any) string {
	if v == nil {
		return "NULL"
	}

	var s string
	switch x := v.(type) {
	case []byte:
		s = string(x)
	case time.Time:
		s = x.Format("2006-01-02 15:04:05")
	default:
		s = fmt.Sprintf("%v", x)
	}

	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// isCommentLine matches the comment styles a dump may carry: `--`
// line comments and `/*` block comment openers
func isCommentLine(stripped string) bool {
	return strings.HasPrefix(stripped, "--") || strings.HasPrefix(stripped, "/*")
}

// IsSafeLine reports whether a single line of a dump may be executed.
// Blank lines and comments are fine, anything else must begin with
// INSERT INTO and carry no forbidden keyword.
func IsSafeLine(line string) bool {
	stripped := strings.ToUpper(strings.TrimSpace(line))

	if stripped == "" || isCommentLine(stripped) {
		return true
	}

	if !strings.HasPrefix(stripped, "INSERT INTO") {
		return false
	}

	return !forbiddenSQL.MatchString(strings.TrimPrefix(stripped, "INSERT INTO"))
}

// Import drops and recreates all application tables, then replays the
// dump line by line. The first unsafe line aborts the replay; rows
// inserted before that point stay in place.
func (s *SQLTransfer) Import(r io.Reader) error {
	if err := s.resetTables(); err != nil {
		return err
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var statement strings.Builder

	for sc.Scan() {
		stripped := strings.TrimSpace(sc.Text())

		if !IsSafeLine(stripped) {
			return ErrUnsafeSQL
		}

		if stripped == "" || isCommentLine(stripped) {
			continue
		}

		statement.WriteString(" ")
		statement.WriteString(stripped)

		if strings.HasSuffix(stripped, ";") {
			stmt := strings.TrimSpace(statement.String())
			stmt = strings.TrimSuffix(stmt, ";")

			if err := s.DB.Exec(stmt).Error; err != nil {
				return err
			}

			statement.Reset()
		}
	}

	if err := sc.Err(); err != nil {
		return err
	}

	return s.fixSequences()
}

func (s *SQLTransfer) resetTables() error {
	for _, t := range model.Tables() {
		if err := s.DB.Migrator().DropTable(t.Name); err != nil {
			return err
		}
	}

	return s.DB.AutoMigrate(model.All()...)
}

// fixSequences realigns postgres serial sequences with the restored
// rows. Sqlite hands out max(pk)+1 natively, so nothing to do there.
func (s *SQLTransfer) fixSequences() error {
	if s.DB.Dialector.Name() != "postgres" {
		return nil
	}

	for _, t := range model.Tables() {
		q := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', '%s'), COALESCE((SELECT MAX(%s) FROM %s), 0) + 1, false)",
			t.Name, t.PK, t.PK, t.Name)

		if err := s.DB.Exec(q).Error; err != nil {
			return err
		}
	}

	return nil
}
