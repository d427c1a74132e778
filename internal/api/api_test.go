package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onwaystudy/onwaystudy/internal/config"
	"github.com/onwaystudy/onwaystudy/internal/sec"
	"github.com/onwaystudy/onwaystudy/internal/storage"
)

const testSignature = "integration-test-signature"

type testServer struct {
	srv *echo.Echo
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	cfg := config.Default()
	cfg.DBFilepath = filepath.Join(t.TempDir(), "db.sqlite")
	cfg.APISignature = testSignature

	store, err := storage.NewDB(t.Context(), cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return testServer{srv: New(cfg, slog.Default(), store)}
}

// do issues a request with the signature header attached. A non-empty auth is
// sent as nickname:password via basic authentication.
func (s testServer) do(t *testing.T, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(data)
	} else {
		payload = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set(sec.SignatureHeader, testSignature)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization,
			"Basic "+base64.StdEncoding.EncodeToString([]byte(auth)))
	}

	rec := httptest.NewRecorder()
	s.srv.ServeHTTP(rec, req)
	return rec
}

func (s testServer) createUser(t *testing.T, nickname, password string) userResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/users", "", echo.Map{
		"nickname": nickname, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// idString renders an identifier the way the API serializes it.
func idString(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func TestSignatureGate(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	// even the unauthenticated user creation action needs the signature
	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"nickname":"alice","password":"secret123"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Missing header required API Signature"}`, rec.Body.String())
}

func TestUserEndpoints(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	user := s.createUser(t, "alice", "secret123")
	assert.Equal(t, "alice", user.Nickname)
	assert.NotZero(t, user.ID)
	s.createUser(t, "bob", "hunter22")

	t.Run("empty fields are rejected", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/users", "", echo.Map{"nickname": "carol"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"password":"The field 'password' cannot be empty."}`, rec.Body.String())

		rec = s.do(t, http.MethodPost, "/users", "", echo.Map{"password": "secret123"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"nickname":"The field 'nickname' cannot be empty."}`, rec.Body.String())
	})

	t.Run("taken nickname gets suggestions", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/users", "", echo.Map{
			"nickname": "alice", "password": "whatever1",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		body := decode[struct {
			Nickname    string   `json:"nickname"`
			Suggestions []string `json:"suggestions"`
		}](t, rec)
		assert.Equal(t, "This nickname already exists. Try one of these:", body.Nickname)
		require.Len(t, body.Suggestions, 5)
		suffixed := regexp.MustCompile(`^alice[1-9]\d{2}$`)
		for _, suggestion := range body.Suggestions {
			assert.Regexp(t, suffixed, suggestion)
		}
	})

	t.Run("read own record", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/users/alice", "alice:secret123", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, user, decode[userResponse](t, rec))
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("anonymous access is rejected", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/users/alice", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("only the owner may act on a record", func(t *testing.T) {
		for _, method := range []string{http.MethodGet, http.MethodPatch, http.MethodDelete} {
			rec := s.do(t, method, "/users/alice", "bob:hunter22", echo.Map{})
			assert.Equal(t, http.StatusForbidden, rec.Code, method)
			assert.Contains(t, rec.Body.String(), permissionDenied, method)
		}
	})

	t.Run("unknown nickname is a 404 even for authenticated callers", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/users/nobody", "alice:secret123", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("put requires the full record", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, "/users/alice", "alice:secret123", echo.Map{
			"nickname": "alice",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "PUT requires both")
	})

	t.Run("password rotation", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/users/alice", "alice:secret123", echo.Map{
			"password": "rotated99",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = s.do(t, http.MethodGet, "/users/alice", "alice:secret123", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		rec = s.do(t, http.MethodGet, "/users/alice", "alice:rotated99", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("delete account", func(t *testing.T) {
		victim := s.createUser(t, "mallory", "shortlived")
		rec := s.do(t, http.MethodDelete, "/users/mallory", "mallory:shortlived", nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NotZero(t, victim.ID)

		// the credentials die with the account
		rec = s.do(t, http.MethodGet, "/institutions", "mallory:shortlived", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestInstitutionEndpoints(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.createUser(t, "alice", "secret123")
	s.createUser(t, "bob", "hunter22")
	const alice = "alice:secret123"
	const bob = "bob:hunter22"

	rec := s.do(t, http.MethodPost, "/institutions", alice, echo.Map{"name": "MIT"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	inst := decode[institutionResponse](t, rec)
	assert.Equal(t, "MIT", inst.Name)
	assert.False(t, inst.Date.IsZero())

	t.Run("duplicate name for the same owner", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/institutions", alice, echo.Map{"name": "MIT"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty name", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/institutions", alice, echo.Map{"name": ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"name":"The field 'name' cannot be empty."}`, rec.Body.String())
	})

	t.Run("listing is scoped to the caller", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/institutions", alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]institutionResponse](t, rec), 1)

		rec = s.do(t, http.MethodGet, "/institutions", bob, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[[]institutionResponse](t, rec))
	})

	t.Run("foreign records read as not found", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/institutions/MIT", bob, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rename and delete", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/institutions/MIT", alice, echo.Map{"name": "Stanford"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "Stanford", decode[institutionResponse](t, rec).Name)

		rec = s.do(t, http.MethodGet, "/institutions/MIT", alice, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = s.do(t, http.MethodDelete, "/institutions/Stanford", alice, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = s.do(t, http.MethodGet, "/institutions/Stanford", alice, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCourseEndpoints(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.createUser(t, "alice", "secret123")
	s.createUser(t, "bob", "hunter22")
	const alice = "alice:secret123"
	const bob = "bob:hunter22"

	rec := s.do(t, http.MethodPost, "/institutions", alice, echo.Map{"name": "MIT"})
	require.Equal(t, http.StatusCreated, rec.Code)
	inst := decode[institutionResponse](t, rec)

	rec = s.do(t, http.MethodPost, "/courses", alice, echo.Map{
		"name": "Computer Science", "acronym": "CS", "semesters": 8,
		"institution": idString(inst.ID),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	course := decode[courseResponse](t, rec)
	assert.Equal(t, inst.ID, course.Institution)

	t.Run("missing fields on create", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/courses", alice, echo.Map{"name": "Law"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode[map[string]string](t, rec)
		assert.Contains(t, body, "acronym")
		assert.Contains(t, body, "semesters")
		assert.Contains(t, body, "institution")
	})

	t.Run("semesters must be positive", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/courses", alice, echo.Map{
			"name": "Law", "acronym": "LAW", "semesters": 0,
			"institution": idString(inst.ID),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "positive integer")
	})

	t.Run("cannot attach to a foreign institution", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/courses", bob, echo.Map{
			"name": "Intruding", "acronym": "IN", "semesters": 2,
			"institution": idString(inst.ID),
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("foreign courses read as not found", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/courses/"+idString(course.ID), bob, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/courses/abc", alice, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("partial update", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/courses/"+idString(course.ID), alice, echo.Map{
			"acronym": "CSC",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		updated := decode[courseResponse](t, rec)
		assert.Equal(t, "CSC", updated.Acronym)
		assert.Equal(t, course.Name, updated.Name)
	})

	t.Run("full update requires every field", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, "/courses/"+idString(course.ID), alice, echo.Map{
			"name": "Computer Science",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/courses", alice, echo.Map{
			"name": "Doomed", "acronym": "DD", "semesters": 1,
			"institution": idString(inst.ID),
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		doomed := decode[courseResponse](t, rec)

		rec = s.do(t, http.MethodDelete, "/courses/"+idString(doomed.ID), alice, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = s.do(t, http.MethodDelete, "/courses/"+idString(doomed.ID), alice, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDisciplineEndpoints(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.createUser(t, "alice", "secret123")
	const alice = "alice:secret123"

	rec := s.do(t, http.MethodPost, "/institutions", alice, echo.Map{"name": "MIT"})
	require.Equal(t, http.StatusCreated, rec.Code)
	inst := decode[institutionResponse](t, rec)
	rec = s.do(t, http.MethodPost, "/courses", alice, echo.Map{
		"name": "Computer Science", "acronym": "CS", "semesters": 8,
		"institution": idString(inst.ID),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	course := decode[courseResponse](t, rec)

	rec = s.do(t, http.MethodPost, "/disciplines", alice, echo.Map{
		"name": "Algorithms", "extra_information": "heavy on proofs",
		"course": idString(course.ID),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	disc := decode[disciplineResponse](t, rec)
	require.NotNil(t, disc.ExtraInformation)
	assert.Equal(t, "heavy on proofs", *disc.ExtraInformation)

	t.Run("patch keeps the note when absent", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/disciplines/"+idString(disc.ID), alice, echo.Map{
			"name": "Advanced Algorithms",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		updated := decode[disciplineResponse](t, rec)
		assert.Equal(t, "Advanced Algorithms", updated.Name)
		require.NotNil(t, updated.ExtraInformation)
		assert.Equal(t, "heavy on proofs", *updated.ExtraInformation)
	})

	t.Run("put clears the note when absent", func(t *testing.T) {
		rec := s.do(t, http.MethodPut, "/disciplines/"+idString(disc.ID), alice, echo.Map{
			"name": "Algorithms", "course": idString(course.ID),
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Nil(t, decode[disciplineResponse](t, rec).ExtraInformation)
	})

	t.Run("listing", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/disciplines", alice, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]disciplineResponse](t, rec), 1)
	})
}

func TestActivityEndpoints(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.createUser(t, "alice", "secret123")
	s.createUser(t, "bob", "hunter22")
	const alice = "alice:secret123"
	const bob = "bob:hunter22"

	rec := s.do(t, http.MethodPost, "/institutions", alice, echo.Map{"name": "MIT"})
	require.Equal(t, http.StatusCreated, rec.Code)
	inst := decode[institutionResponse](t, rec)
	rec = s.do(t, http.MethodPost, "/courses", alice, echo.Map{
		"name": "Computer Science", "acronym": "CS", "semesters": 8,
		"institution": idString(inst.ID),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	course := decode[courseResponse](t, rec)
	rec = s.do(t, http.MethodPost, "/disciplines", alice, echo.Map{
		"name": "Algorithms", "course": idString(course.ID),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	disc := decode[disciplineResponse](t, rec)

	rec = s.do(t, http.MethodPost, "/activities", alice, echo.Map{
		"name": "Final exam", "discipline": idString(disc.ID),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	act := decode[activityResponse](t, rec)
	assert.Equal(t, "PENDING", act.Status)
	assert.False(t, act.Date.IsZero())
	assert.Nil(t, act.Weight)
	assert.Nil(t, act.Result)

	t.Run("status is validated", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/activities/"+idString(act.ID), alice, echo.Map{
			"status": "DONE",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "PENDING, IN_PROGRESS, COMPLETED")
	})

	t.Run("grading an activity", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/activities/"+idString(act.ID), alice, echo.Map{
			"status": "COMPLETED", "weight": 0.4, "result": 9.5,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		graded := decode[activityResponse](t, rec)
		assert.Equal(t, "COMPLETED", graded.Status)
		require.NotNil(t, graded.Weight)
		assert.InEpsilon(t, 0.4, *graded.Weight, 1e-9)
		require.NotNil(t, graded.Result)
		assert.InEpsilon(t, 9.5, *graded.Result, 1e-9)
		// the creation date is immutable
		assert.Equal(t, act.Date, graded.Date)
	})

	t.Run("foreign activities read as not found", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/activities/"+idString(act.ID), bob, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = s.do(t, http.MethodGet, "/activities", bob, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[[]activityResponse](t, rec))
	})
}
