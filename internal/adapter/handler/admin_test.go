package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"client-gate/internal/domain"
	"client-gate/internal/infrastructure/session"
	"client-gate/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newAdminTestHandler(provider *fakeProvider, directory *fakeDirectory, store domain.SessionStore) *AdminHandler {
	logger := slog.Default()
	return NewAdminHandler(
		usecase.NewCreateUser(provider, logger),
		usecase.NewDeleteUser(provider, directory, store, logger),
		usecase.NewSendPasswordSetup(provider, logger),
	)
}

func adminRequest(t *testing.T, method, target, body string, handler echo.HandlerFunc, pathParam ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	e.Validator = NewRequestValidator()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(pathParam) == 2 {
		c.SetParamNames(pathParam[0])
		c.SetParamValues(pathParam[1])
	}

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	var parsed map[string]any
	json.Unmarshal(rec.Body.Bytes(), &parsed)
	return rec, parsed
}

func TestAdminHandler_CreateUser(t *testing.T) {
	provider := &fakeProvider{createUID: "new-uid"}
	h := newAdminTestHandler(provider, newFakeDirectory(), session.NewMemoryStore(time.Hour))

	rec, body := adminRequest(t, http.MethodPost, "/api/users",
		`{"email":"a@example.com","password":"long-enough","displayName":"A"}`, h.CreateUser)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "new-uid", body["uid"])
}

func TestAdminHandler_CreateUser_Validation(t *testing.T) {
	h := newAdminTestHandler(&fakeProvider{}, newFakeDirectory(), session.NewMemoryStore(time.Hour))

	rec, _ := adminRequest(t, http.MethodPost, "/api/users",
		`{"email":"not-an-email","password":"long-enough"}`, h.CreateUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = adminRequest(t, http.MethodPost, "/api/users",
		`{"email":"a@example.com","password":"short"}`, h.CreateUser)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminHandler_CreateUser_Conflict(t *testing.T) {
	provider := &fakeProvider{createErr: domain.ErrInvalidInput}
	h := newAdminTestHandler(provider, newFakeDirectory(), session.NewMemoryStore(time.Hour))

	rec, _ := adminRequest(t, http.MethodPost, "/api/users",
		`{"email":"a@example.com","password":"long-enough"}`, h.CreateUser)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminHandler_DeleteUser(t *testing.T) {
	provider := &fakeProvider{}
	directory := newFakeDirectory()
	directory.users["u1"] = &domain.DirectoryUser{UID: "u1"}
	store := session.NewMemoryStore(time.Hour)
	store.Put(context.Background(), &domain.Session{ID: "s1", User: domain.SessionUser{"uid": "u1"}})

	h := newAdminTestHandler(provider, directory, store)
	rec, body := adminRequest(t, http.MethodDelete, "/api/users/u1", "", h.DeleteUser, "uid", "u1")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "warning")

	_, err := store.Get(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAdminHandler_DeleteUser_UnknownIdentity(t *testing.T) {
	provider := &fakeProvider{deleteErr: domain.ErrNotFound}
	h := newAdminTestHandler(provider, newFakeDirectory(), session.NewMemoryStore(time.Hour))

	rec, _ := adminRequest(t, http.MethodDelete, "/api/users/ghost", "", h.DeleteUser, "uid", "ghost")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminHandler_SendPasswordSetup(t *testing.T) {
	provider := &fakeProvider{}
	h := newAdminTestHandler(provider, newFakeDirectory(), session.NewMemoryStore(time.Hour))

	rec, body := adminRequest(t, http.MethodPost, "/api/users/send-password-setup",
		`{"email":"a@example.com"}`, h.SendPasswordSetup)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
}
