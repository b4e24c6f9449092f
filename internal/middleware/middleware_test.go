package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/auth"
	"github.com/yigit/registrar/internal/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestLogger_AssignsID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	id := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())

	const given = "0b9f6d39-2d4c-4a4f-9a53-5d7c4f0e4a11"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, given)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, given, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid\nforged")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid\nforged", w.Header().Get(RequestIDHeader))
}

func TestFlashes_RoundTrip(t *testing.T) {
	signer := auth.NewSessionSigner(auth.SessionConfig{SecretKey: "test-secret"})
	r := gin.New()
	r.Use(Flashes(signer))
	r.POST("/save", func(c *gin.Context) {
		AddFlash(c, auth.FlashSuccess, "College saved")
		c.Redirect(http.StatusFound, "/show")
	})
	r.GET("/show", func(c *gin.Context) {
		var msgs []string
		for _, f := range GetFlashes(c) {
			msgs = append(msgs, f.Category+":"+f.Message)
		}
		c.String(http.StatusOK, strings.Join(msgs, ","))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/save", nil))
	require.Equal(t, http.StatusFound, w.Code)
	cookie := lastCookie(t, w, FlashCookieName)
	require.NotEmpty(t, cookie.Value)

	req := httptest.NewRequest(http.MethodGet, "/show", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "success:College saved", w.Body.String())
	assert.Empty(t, lastCookie(t, w, FlashCookieName).Value)

	// a forged cookie is ignored
	req = httptest.NewRequest(http.MethodGet, "/show", nil)
	req.AddCookie(&http.Cookie{Name: FlashCookieName, Value: "forged"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "", w.Body.String())
}

func lastCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	var found *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	require.NotNil(t, found, "cookie %s not set", name)
	return found
}

type testForm struct {
	Code     string `form:"code" binding:"required,max=10"`
	IDNumber string `form:"id_number" binding:"required,idnumber"`
}

func multipartRequest(t *testing.T, form url.Values) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, vals := range form {
		for _, v := range vals {
			require.NoError(t, mw.WriteField(key, v))
		}
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestBindForm(t *testing.T) {
	tests := []struct {
		name      string
		form      url.Values
		multipart bool
		want      validation.FieldErrors
		code      string
	}{
		{
			name: "valid and trimmed",
			form: url.Values{"code": {"  C01 "}, "id_number": {" 2025-0001 "}},
			want: validation.FieldErrors{},
			code: "C01",
		},
		{
			name:      "multipart valid and trimmed",
			form:      url.Values{"code": {"  C01 "}, "id_number": {" 2025-0001 "}},
			multipart: true,
			want:      validation.FieldErrors{},
			code:      "C01",
		},
		{
			name:      "multipart length measured after trim",
			form:      url.Values{"code": {"   ABCDEFGHIJ   "}, "id_number": {"2025-0001"}},
			multipart: true,
			want:      validation.FieldErrors{},
			code:      "ABCDEFGHIJ",
		},
		{
			name: "whitespace only is missing",
			form: url.Values{"code": {"   "}, "id_number": {"2025-0001"}},
			want: validation.FieldErrors{"code": validation.MsgRequired},
		},
		{
			name: "bad id number",
			form: url.Values{"code": {"C01"}, "id_number": {"2025-01"}},
			want: validation.FieldErrors{"id_number": validation.MsgIDNumber},
			code: "C01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var form testForm
			var got validation.FieldErrors

			r := gin.New()
			r.POST("/", func(c *gin.Context) { got = BindForm(c, &form) })
			var req *http.Request
			if tt.multipart {
				req = multipartRequest(t, tt.form)
			} else {
				req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.form.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}
			r.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
			if tt.code != "" {
				assert.Equal(t, tt.code, form.Code)
			}
		})
	}
}

func TestHandleActionError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{apperrors.ErrCollegeNotFound, http.StatusNotFound, "College not found"},
		{apperrors.ErrCollegeHasPrograms, http.StatusBadRequest, "Cannot delete college: programs are linked to it"},
		{apperrors.ErrProgramAlreadyExists, http.StatusConflict, "A program with this code already exists"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "Failed to delete college"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			r := gin.New()
			r.POST("/", func(c *gin.Context) { HandleActionError(c, tt.err, "Failed to delete college") })
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"success":false,"message":%q}`, tt.message), w.Body.String())
		})
	}
}
