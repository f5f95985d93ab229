package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vortrixs/user-api/internal/config"
	"github.com/vortrixs/user-api/internal/errs"
	"github.com/vortrixs/user-api/internal/model"
	"github.com/vortrixs/user-api/internal/server"
)

func newTestServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary:       config.Primary{Env: "test"},
			Observability: config.DefaultObservabilityConfig(),
		},
		Logger: &logger,
	}
}

func serve(t *testing.T, h echo.HandlerFunc, method, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, "/users/1", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/users/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")

	return rec, h(c)
}

func TestHandle_FreshPayloadPerRequest(t *testing.T) {
	var seen []*model.UpdateUserPayload
	h := Handle(NewHandler(newTestServer()), func(c echo.Context, req *model.UpdateUserPayload) (model.UserFields, error) {
		seen = append(seen, req)
		return req.Fields(), nil
	}, http.StatusOK)

	first, err := serve(t, h, http.MethodPatch, `{"firstname":"Ada"}`)
	require.NoError(t, err)
	second, err := serve(t, h, http.MethodPatch, `{"lastname":"Byron"}`)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	require.Len(t, seen, 2)
	assert.NotSame(t, seen[0], seen[1])
	assert.JSONEq(t, `{"lastname":"Byron"}`, second.Body.String())
}

func TestHandle_ValidationFailureSkipsEndpoint(t *testing.T) {
	called := false
	h := Handle(NewHandler(newTestServer()), func(c echo.Context, req *model.CreateUserPayload) (*model.User, error) {
		called = true
		return nil, nil
	}, http.StatusCreated)

	_, err := serve(t, h, http.MethodPost, `{"firstname":"Ada"}`)

	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))
	assert.False(t, called)
}

func TestHandleNoContent(t *testing.T) {
	var gotID int64
	h := HandleNoContent(NewHandler(newTestServer()), func(c echo.Context, req *model.DeleteUserPayload) error {
		gotID = req.UserID()
		return nil
	}, http.StatusNoContent)

	rec, err := serve(t, h, http.MethodDelete, "")
	require.NoError(t, err)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
	assert.Equal(t, int64(1), gotID)
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer()

	check := func(handler *HealthHandler) (int, map[string]any) {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/status", nil), rec)
		require.NoError(t, handler.CheckHealth(c))

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return rec.Code, body
	}

	h := NewHealthHandler(s)
	assert.Empty(t, h.checks)

	h.checks = []healthCheck{{name: "database", check: func(context.Context) error { return nil }}}
	status, body := check(h)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["environment"])

	h.checks = append(h.checks, healthCheck{name: "redis", check: func(context.Context) error { return errors.New("connection refused") }})
	status, body = check(h)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unhealthy", body["status"])

	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"].(map[string]any)["status"])
	assert.Equal(t, "connection refused", checks["redis"].(map[string]any)["error"])
}
