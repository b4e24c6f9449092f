package testutil

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/yigit/registrar/internal/app/migrations"
	"github.com/yigit/registrar/internal/db"
)

// TestDSN is an in-memory sqlite database with foreign keys enforced.
const TestDSN = "file::memory:?_pragma=foreign_keys(1)"

// SetupTestDB opens a fresh in-memory database with the full schema applied.
// It is closed when the test ends.
func SetupTestDB(t *testing.T) *db.Database {
	t.Helper()

	database, err := db.NewSQLiteDB(TestDSN)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(database.Close)

	if err := migrations.NewMigrator(database).Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return database
}

// Seeded holds the ids of the rows created by SeedScenario.
type Seeded struct {
	CollegeID int64
	ProgramID int64
	StudentID int64
}

// SeedScenario creates college C01, program P01 under it and student
// 2025-0001 in that program.
func SeedScenario(t *testing.T, d *db.Database) Seeded {
	t.Helper()

	var s Seeded
	s.CollegeID = insert(t, d, "college", []string{"code", "name"}, "C01", "Test College")
	s.ProgramID = insert(t, d, "program", []string{"code", "name", "college_id"}, "P01", "Test Program", s.CollegeID)
	s.StudentID = insert(t, d, "student",
		[]string{"id_number", "first_name", "last_name", "program_id", "year", "gender"},
		"2025-0001", "John", "Doe", s.ProgramID, 1, "M")
	return s
}

// CreateTestCollege inserts a college and returns its id
func CreateTestCollege(t *testing.T, d *db.Database, code, name string) int64 {
	t.Helper()
	return insert(t, d, "college", []string{"code", "name"}, code, name)
}

// CreateTestProgram inserts a program and returns its id
func CreateTestProgram(t *testing.T, d *db.Database, code, name string, collegeID int64) int64 {
	t.Helper()
	return insert(t, d, "program", []string{"code", "name", "college_id"}, code, name, collegeID)
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, d *db.Database, table string) int {
	t.Helper()

	query, args, err := d.Builder().Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		t.Fatalf("Failed to build count query: %v", err)
	}
	var n int
	if err := d.DB.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

func insert(t *testing.T, d *db.Database, table string, columns []string, values ...any) int64 {
	t.Helper()

	query, args, err := d.Builder().Insert(table).Columns(columns...).Values(values...).Suffix("RETURNING id").ToSql()
	if err != nil {
		t.Fatalf("Failed to build insert: %v", err)
	}
	var id int64
	if err := d.DB.QueryRow(query, args...).Scan(&id); err != nil {
		t.Fatalf("Failed to insert into %s: %v", table, err)
	}
	return id
}

// PostForm performs a form-encoded POST against handler and returns the recorder.
func PostForm(handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// PostMultipart performs a multipart/form-data POST against handler.
func PostMultipart(t *testing.T, handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, vals := range form {
		for _, v := range vals {
			if err := mw.WriteField(key, v); err != nil {
				t.Fatalf("Failed to write field %s: %v", key, err)
			}
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close multipart body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// Get performs a GET against handler, replaying cookies when given.
func Get(handler http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// Post performs a body-less POST against handler, as the delete buttons do.
func Post(handler http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}
