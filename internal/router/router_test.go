package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortrixs/user-api/internal/config"
	"github.com/vortrixs/user-api/internal/errs"
	"github.com/vortrixs/user-api/internal/handler"
	"github.com/vortrixs/user-api/internal/repository"
	"github.com/vortrixs/user-api/internal/server"
	"github.com/vortrixs/user-api/internal/service"
)

type userBody struct {
	ID        int64     `json:"id"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	logger := zerolog.New(io.Discard)
	s := &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}

	repos := &repository.Repositories{Users: repository.NewMemoryUserRepository()}
	services := service.NewServices(s, repos)
	return NewRouter(s, handler.NewHandlers(s, services))
}

func do(t *testing.T, r *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeUser(t *testing.T, rec *httptest.ResponseRecorder) userBody {
	t.Helper()

	var u userBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))
	return u
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()

	var e errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func listCount(t *testing.T, r *echo.Echo) int {
	t.Helper()

	rec := do(t, r, http.MethodGet, "/users", "")
	if rec.Code == http.StatusNotFound {
		return 0
	}
	require.Equal(t, http.StatusOK, rec.Code)

	var users []userBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	return len(users)
}

const adaJSON = `{"firstname":"Ada","lastname":"Lovelace","email":"ada@example.com"}`

func TestUsers_ExampleSequence(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/users", adaJSON)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeUser(t, rec)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Ada", created.Firstname)
	assert.Equal(t, "Lovelace", created.Lastname)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())

	rec = do(t, r, http.MethodPost, "/users", adaJSON)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "USER_ALREADY_EXISTS", decodeError(t, rec).Code)

	rec = do(t, r, http.MethodGet, "/users/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	shown := decodeUser(t, rec)
	assert.Equal(t, created.ID, shown.ID)
	assert.Equal(t, created, shown)
	assert.Zero(t, created.CreatedAt.Nanosecond()%1000)

	rec = do(t, r, http.MethodDelete, "/users/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())

	rec = do(t, r, http.MethodGet, "/users/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsers_ListEmptyThenOne(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/users", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	created := decodeUser(t, do(t, r, http.MethodPost, "/users", adaJSON))

	rec = do(t, r, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var users []userBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, created.ID, users[0].ID)
	assert.Equal(t, created.Email, users[0].Email)
}

func TestUsers_CreateAssignsFreshIDs(t *testing.T) {
	r := newTestRouter(t)

	seen := map[int64]bool{}
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		rec := do(t, r, http.MethodPost, "/users", `{"firstname":"A","lastname":"B","email":"`+email+`"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		id := decodeUser(t, rec).ID
		assert.False(t, seen[id], "id %d reused", id)
		seen[id] = true
	}
}

func TestUsers_CreateInvalidInput(t *testing.T) {
	r := newTestRouter(t)

	cases := map[string]string{
		"missing firstname": `{"lastname":"Lovelace","email":"ada@example.com"}`,
		"missing lastname":  `{"firstname":"Ada","email":"ada@example.com"}`,
		"missing email":     `{"firstname":"Ada","lastname":"Lovelace"}`,
		"invalid email":     `{"firstname":"Ada","lastname":"Lovelace","email":"ada"}`,
		"non-text name":     `{"firstname":7,"lastname":"Lovelace","email":"ada@example.com"}`,
		"malformed json":    `{"firstname":`,
		"empty object":      `{}`,
		"blank firstname":   `{"firstname":"   ","lastname":"Lovelace","email":"ada@example.com"}`,
		"null lastname":     `{"firstname":"Ada","lastname":null,"email":"ada@example.com"}`,
		"trailing data":     adaJSON + `trailing`,
		"array body":        `[` + adaJSON + `]`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/users", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, 0, listCount(t, r))
		})
	}
}

func TestUsers_ShowUnknownIDs(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/users/42", "/users/0", "/users/abc", "/users/-1"} {
		rec := do(t, r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestUsers_PartialUpdate(t *testing.T) {
	for _, method := range []string{http.MethodPatch, http.MethodPut} {
		t.Run(method, func(t *testing.T) {
			r := newTestRouter(t)
			created := decodeUser(t, do(t, r, http.MethodPost, "/users", adaJSON))

			rec := do(t, r, method, "/users/1", `{"lastname":"Byron","id":99,"created_at":"2000-01-01T00:00:00Z"}`)
			require.Equal(t, http.StatusOK, rec.Code)

			updated := decodeUser(t, rec)
			assert.Equal(t, created.ID, updated.ID)
			assert.Equal(t, "Ada", updated.Firstname)
			assert.Equal(t, "Byron", updated.Lastname)
			assert.Equal(t, "ada@example.com", updated.Email)
			assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
			assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
		})
	}
}

func TestUsers_UpdateConflictLeavesBothUnchanged(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, http.MethodPost, "/users", adaJSON)
	do(t, r, http.MethodPost, "/users", `{"firstname":"Alan","lastname":"Turing","email":"alan@example.com"}`)

	rec := do(t, r, http.MethodPatch, "/users/2", `{"firstname":"Changed","email":"ada@example.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	ada := decodeUser(t, do(t, r, http.MethodGet, "/users/1", ""))
	alan := decodeUser(t, do(t, r, http.MethodGet, "/users/2", ""))
	assert.Equal(t, "ada@example.com", ada.Email)
	assert.Equal(t, "Alan", alan.Firstname)
	assert.Equal(t, "alan@example.com", alan.Email)
}

func TestUsers_UpdateOrdering(t *testing.T) {
	r := newTestRouter(t)
	do(t, r, http.MethodPost, "/users", adaJSON)

	// Validation runs before the existence check.
	rec := do(t, r, http.MethodPatch, "/users/999", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// So does the uniqueness check.
	rec = do(t, r, http.MethodPatch, "/users/999", `{"email":"ada@example.com"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, r, http.MethodPatch, "/users/999", `{"firstname":"Nobody"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsers_UpdateSuppliedNullIsInvalid(t *testing.T) {
	r := newTestRouter(t)
	created := decodeUser(t, do(t, r, http.MethodPost, "/users", adaJSON))

	for _, body := range []string{`{"email":null}`, `{"lastname":null}`, `{"firstname":"   "}`} {
		rec := do(t, r, http.MethodPatch, "/users/1", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	// A null is a validation failure, so it wins over the missing row.
	rec := do(t, r, http.MethodPatch, "/users/999", `{"email":null}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []errs.FieldError{{Field: "email", Error: "must be text"}}, decodeError(t, rec).Errors)

	assert.Equal(t, created, decodeUser(t, do(t, r, http.MethodGet, "/users/1", "")))
}

func TestUsers_CreateTrimsInput(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodPost, "/users", `{"firstname":" Ada ","lastname":"Lovelace","email":" ada@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	created := decodeUser(t, rec)
	assert.Equal(t, "Ada", created.Firstname)
	assert.Equal(t, "ada@example.com", created.Email)
}

func TestUsers_DeleteUnknown(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodDelete, "/users/5", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_SystemRoutesAndHeaders(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(t, r, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decodeError(t, rec).Message)

	rec = do(t, r, http.MethodPost, "/users/1", adaJSON)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
