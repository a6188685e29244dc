package backend

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDumpWritesSchemaAndRows(t *testing.T) {
	db := openTestDB(t)
	db.Create(&Computer{Name: "PC-'quoted'", HourlyRate: 9000})

	var out strings.Builder
	if err := Dump(db, &out); err != nil {
		t.Fatal(err)
	}
	dump := out.String()
	for _, want := range []string{
		"CREATE TABLE `users`",
		"INSERT INTO users (",
		"INSERT INTO computers (",
		"'PC-''quoted'''",
	} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump lacks %q", want)
		}
	}
	if strings.Index(dump, "INSERT INTO users") > strings.Index(dump, "INSERT INTO accounts") {
		t.Error("users must be dumped before accounts")
	}
}

func TestSQLLiteral(t *testing.T) {
	ts := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, "NULL"},
		{int64(42), "42"},
		{8000.5, "8000.5"},
		{true, "1"},
		{"it's", "'it''s'"},
		{[]byte("x"), "'x'"},
		{ts, "'2026-03-01 09:30:00+00:00'"},
	}
	for _, tt := range tests {
		if got := sqlLiteral(tt.in); got != tt.want {
			t.Errorf("sqlLiteral(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

var errDiskFull = errors.New("disk full")

// limitedWriter accepts n writes and fails every one after that.
type limitedWriter struct{ n int }

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.n == 0 {
		return 0, errDiskFull
	}
	w.n--
	return len(p), nil
}

func TestDumpReportsWriteFailureWithTable(t *testing.T) {
	db := openTestDB(t)

	err := Dump(db, &limitedWriter{n: 0})
	if !errors.Is(err, errDiskFull) || !strings.Contains(err.Error(), "users") {
		t.Fatalf("schema write: err = %v", err)
	}

	// The users schema goes through; its first row does not.
	err = Dump(db, &limitedWriter{n: 1})
	if !errors.Is(err, errDiskFull) || !strings.Contains(err.Error(), "rows of users") {
		t.Fatalf("row write: err = %v", err)
	}
}
