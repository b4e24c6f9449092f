package routes_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/bootstrap"
	"github.com/yigit/registrar/internal/config"
	"github.com/yigit/registrar/internal/db"
	"github.com/yigit/registrar/internal/middleware"
	"github.com/yigit/registrar/internal/testutil"
)

func newApp(t *testing.T) (http.Handler, *db.Database) {
	t.Helper()
	d := testutil.SetupTestDB(t)

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Session.SecretKey = "test-secret"
	cfg.Session.FlashTTL = "5m"

	deps := bootstrap.BuildDependencies(cfg, d, zerolog.Nop())
	router, err := bootstrap.SetupRouter(cfg, deps, zerolog.Nop())
	require.NoError(t, err)
	return router, d
}

func decodeAction(t *testing.T, w *httptest.ResponseRecorder) dto.ActionResponse {
	t.Helper()
	var resp dto.ActionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func flashCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.FlashCookieName && c.Value != "" {
			found = c
		}
	}
	require.NotNil(t, found, "flash cookie not set")
	return found
}

func id(n int64) string { return strconv.FormatInt(n, 10) }

func TestDeleteCollege_WithPrograms(t *testing.T) {
	app, d := newApp(t)
	seeded := testutil.SeedScenario(t, d)

	w := testutil.Post(app, "/user/colleges/delete/"+id(seeded.CollegeID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ActionResponse{Success: false, Message: "Cannot delete college: programs are linked to it"}, decodeAction(t, w))
	assert.Equal(t, 1, testutil.CountRows(t, d, "college"))
	assert.Equal(t, 1, testutil.CountRows(t, d, "program"))
}

func TestDeleteProgram_WithStudents(t *testing.T) {
	app, d := newApp(t)
	seeded := testutil.SeedScenario(t, d)

	w := testutil.Post(app, "/user/programs/delete/"+id(seeded.ProgramID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeAction(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "Cannot delete program: students are linked to it", resp.Message)
	assert.Equal(t, 1, testutil.CountRows(t, d, "program"))
}

func TestDeleteStudent(t *testing.T) {
	app, d := newApp(t)
	seeded := testutil.SeedScenario(t, d)

	w := testutil.Post(app, "/user/students/delete/"+id(seeded.StudentID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ActionResponse{Success: true, Message: "Student deleted"}, decodeAction(t, w))
	assert.Equal(t, 0, testutil.CountRows(t, d, "student"))
}

func TestDelete_ParentsAfterChildrenRemoved(t *testing.T) {
	app, d := newApp(t)
	seeded := testutil.SeedScenario(t, d)

	require.Equal(t, http.StatusOK, testutil.Post(app, "/user/students/delete/"+id(seeded.StudentID)).Code)

	w := testutil.Post(app, "/user/programs/delete/"+id(seeded.ProgramID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Program deleted", decodeAction(t, w).Message)

	w = testutil.Post(app, "/user/colleges/delete/"+id(seeded.CollegeID))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ActionResponse{Success: true, Message: "College deleted"}, decodeAction(t, w))
	assert.Equal(t, 0, testutil.CountRows(t, d, "college"))
}

func TestDelete_Missing(t *testing.T) {
	app, _ := newApp(t)

	for path, msg := range map[string]string{
		"/user/colleges/delete/999": "College not found",
		"/user/programs/delete/999": "Program not found",
		"/user/students/delete/999": "Student not found",
		"/user/colleges/delete/abc": "College not found",
		"/user/students/delete/-5":  "Student not found",
		// beyond the integer id column range
		"/user/colleges/delete/3000000000": "College not found",
	} {
		w := testutil.Post(app, path)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, dto.ActionResponse{Success: false, Message: msg}, decodeAction(t, w), path)
	}
}

func TestSaveCollege_CreateAndFlash(t *testing.T) {
	app, d := newApp(t)

	w := testutil.PostForm(app, "/user/colleges", url.Values{"code": {" CCS "}, "name": {"Computer Studies"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/user/colleges", w.Header().Get("Location"))
	assert.Equal(t, 1, testutil.CountRows(t, d, "college"))

	page := testutil.Get(app, "/user/colleges", flashCookie(t, w))
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "College saved")
	assert.Contains(t, page.Body.String(), "<td>CCS</td>")

	// shown once
	page = testutil.Get(app, "/user/colleges")
	assert.NotContains(t, page.Body.String(), "College saved")
}

func TestSaveCollege_DuplicateCode(t *testing.T) {
	app, d := newApp(t)
	testutil.SeedScenario(t, d)

	w := testutil.PostForm(app, "/user/colleges", url.Values{"code": {"C01"}, "name": {"Another"}})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "A college with this code already exists")
	assert.Equal(t, 1, testutil.CountRows(t, d, "college"))
}

func TestSaveCollege_MultipartIsTrimmed(t *testing.T) {
	app, d := newApp(t)
	testutil.SeedScenario(t, d)

	w := testutil.PostMultipart(t, app, "/user/colleges", url.Values{"code": {"  C09  "}, "name": {"  Spaced  "}})
	require.Equal(t, http.StatusFound, w.Code)

	var code, name string
	require.NoError(t, d.DB.QueryRow("SELECT code, name FROM college WHERE code = 'C09'").Scan(&code, &name))
	assert.Equal(t, "C09", code)
	assert.Equal(t, "Spaced", name)

	// padding must not slip past the unique code
	w = testutil.PostMultipart(t, app, "/user/colleges", url.Values{"code": {"C01 "}, "name": {"Twin"}})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 2, testutil.CountRows(t, d, "college"))
}

func TestSaveCollege_Validation(t *testing.T) {
	app, d := newApp(t)

	w := testutil.PostForm(app, "/user/colleges", url.Values{"code": {"   "}, "name": {"Valid"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")

	w = testutil.PostForm(app, "/user/colleges", url.Values{"code": {"ABCDEFGHIJK"}, "name": {"Valid"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Field cannot be longer than 10 characters.")

	w = testutil.PostForm(app, "/user/colleges", url.Values{"id": {"x1"}, "code": {"C"}, "name": {"Valid"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid id.")

	assert.Equal(t, 0, testutil.CountRows(t, d, "college"))
}

func TestSaveCollege_Update(t *testing.T) {
	app, d := newApp(t)
	seeded := testutil.SeedScenario(t, d)

	w := testutil.PostForm(app, "/user/colleges", url.Values{"id": {id(seeded.CollegeID)}, "code": {"C01"}, "name": {"Renamed"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 1, testutil.CountRows(t, d, "college"))

	page := testutil.Get(app, "/user/colleges?edit="+id(seeded.CollegeID))
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `value="Renamed"`)
}

func TestSaveCollege_UpdateMissing(t *testing.T) {
	app, d := newApp(t)

	w := testutil.PostForm(app, "/user/colleges", url.Values{"id": {"999"}, "code": {"C01"}, "name": {"Ghost"}})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 0, testutil.CountRows(t, d, "college"))

	page := testutil.Get(app, "/user/colleges", flashCookie(t, w))
	assert.Contains(t, page.Body.String(), "College not found")
}

func TestEditMode_UnknownID(t *testing.T) {
	app, _ := newApp(t)

	for _, path := range []string{"/user/students?edit=42", "/user/students?edit=3000000000", "/user/students?edit=abc"} {
		w := testutil.Get(app, path)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/user/students", w.Header().Get("Location"), path)
	}
}

func TestSaveProgram_InvalidCollege(t *testing.T) {
	app, d := newApp(t)
	seeded := testutil.SeedScenario(t, d)

	w := testutil.PostForm(app, "/user/programs", url.Values{"code": {"P02"}, "name": {"Other"}, "college_id": {id(seeded.CollegeID + 10)}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Not a valid choice.")
	assert.Equal(t, 1, testutil.CountRows(t, d, "program"))

	w = testutil.PostForm(app, "/user/programs", url.Values{"code": {"P02"}, "name": {"Other"}, "college_id": {id(seeded.CollegeID)}})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 2, testutil.CountRows(t, d, "program"))
}

func TestSaveProgram_DuplicateCode(t *testing.T) {
	app, d := newApp(t)
	seeded := testutil.SeedScenario(t, d)

	w := testutil.PostForm(app, "/user/programs", url.Values{"code": {"P01"}, "name": {"Copy"}, "college_id": {id(seeded.CollegeID)}})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "A program with this code already exists")
	assert.Equal(t, 1, testutil.CountRows(t, d, "program"))
}

func TestSaveStudent(t *testing.T) {
	app, d := newApp(t)
	seeded := testutil.SeedScenario(t, d)

	form := url.Values{
		"id_number":  {"2025-002"},
		"first_name": {"Jane"},
		"last_name":  {"Roe"},
		"program_id": {id(seeded.ProgramID)},
		"year":       {"2"},
		"gender":     {"F"},
	}
	w := testutil.PostForm(app, "/user/students", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Use format YYYY-NNNN")
	assert.Equal(t, 1, testutil.CountRows(t, d, "student"))

	form.Set("id_number", "2025-0001")
	w = testutil.PostForm(app, "/user/students", form)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "A student with this ID number already exists")

	form.Set("id_number", "2025-0002")
	form.Set("year", "5")
	w = testutil.PostForm(app, "/user/students", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Not a valid choice.")

	form.Set("year", "2")
	w = testutil.PostForm(app, "/user/students", form)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, 2, testutil.CountRows(t, d, "student"))

	page := testutil.Get(app, "/user/students?q=roe")
	assert.Contains(t, page.Body.String(), "Roe, Jane")
	assert.NotContains(t, page.Body.String(), "Doe, John")
}

func TestIndexAndHealth(t *testing.T) {
	app, d := newApp(t)
	testutil.SeedScenario(t, d)

	w := testutil.Get(app, "/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/user/", w.Header().Get("Location"))

	w = testutil.Get(app, "/user/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Manage students")

	w = testutil.Get(app, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":"up"}`, w.Body.String())
}
