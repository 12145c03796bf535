package handlers

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/pkg/user"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserService struct {
	user.UserService

	registered    *domain.RegisterRequest
	login         func(req domain.LoginRequest) (domain.LoginResponse, error)
	subscribe     func(authorID, userID string, limit int) (domain.SubscribedAuthor, error)
	subscriptions func(page domain.PaginationRequest, userID string, limit int) ([]domain.SubscribedAuthor, int64, error)
}

func (s *stubUserService) Register(_ context.Context, req domain.RegisterRequest) (domain.User, error) {
	s.registered = &req
	return domain.User{Email: req.Email, Username: req.Username}, nil
}

func (s *stubUserService) Login(_ context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	return s.login(req)
}

func (s *stubUserService) Subscribe(_ context.Context, authorID, userID string, limit int) (domain.SubscribedAuthor, error) {
	return s.subscribe(authorID, userID, limit)
}

func (s *stubUserService) GetSubscriptions(_ context.Context, page domain.PaginationRequest, userID string, limit int) ([]domain.SubscribedAuthor, int64, error) {
	return s.subscriptions(page, userID, limit)
}

func newUserApp(svc user.UserService) *fiber.App {
	utils.InitValidator()
	h := NewUserHandler(svc, utils.Validate)

	app := fiber.New()
	app.Use(withUser)
	app.Post("/api/users", h.Register)
	app.Post("/api/auth/token/login", h.Login)
	app.Post("/api/auth/token/logout", h.Logout)
	app.Get("/api/users/subscriptions", h.GetSubscriptions)
	app.Post("/api/users/:id/subscribe", h.Subscribe)
	return app
}

func postJSON(path, body, userID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}
	return req
}

func TestUserHandler_RegisterValidation(t *testing.T) {
	svc := &stubUserService{}
	app := newUserApp(svc)

	res, err := app.Test(postJSON("/api/users",
		`{"email":"a@b.io","username":"bad name!","first_name":"A","last_name":"B","password":"longenough"}`, ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	assert.Nil(t, svc.registered)

	res, err = app.Test(postJSON("/api/users",
		`{"email":"a@b.io","username":"good.name+1","first_name":"A","last_name":"B","password":"longenough"}`, ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)
	require.NotNil(t, svc.registered)
	assert.Equal(t, "good.name+1", svc.registered.Username)
}

func TestUserHandler_Login(t *testing.T) {
	svc := &stubUserService{login: func(req domain.LoginRequest) (domain.LoginResponse, error) {
		if req.Password != "secret" {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{AuthToken: "tok"}, nil
	}}
	app := newUserApp(svc)

	res, err := app.Test(postJSON("/api/auth/token/login", `{"email":"a@b.io","password":"nope"}`, ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	res, err = app.Test(postJSON("/api/auth/token/login", `{"email":"a@b.io","password":"secret"}`, ""))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	data := decode(t, res).Data.(map[string]any)
	assert.Equal(t, "tok", data["auth_token"])

	res, err = app.Test(postJSON("/api/auth/token/logout", ``, "u-1"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, res.StatusCode)
}

func TestUserHandler_Subscribe(t *testing.T) {
	var gotLimit int
	svc := &stubUserService{subscribe: func(authorID, userID string, limit int) (domain.SubscribedAuthor, error) {
		gotLimit = limit
		if authorID == userID {
			return domain.SubscribedAuthor{}, domain.ErrSelfSubscription
		}
		return domain.SubscribedAuthor{User: domain.User{ID: authorID, IsSubscribed: true}}, nil
	}}
	app := newUserApp(svc)

	res, err := app.Test(postJSON("/api/users/me-1/subscribe", ``, "me-1"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	res, err = app.Test(postJSON("/api/users/chef/subscribe?recipes_limit=2", ``, "me-1"))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)
	assert.Equal(t, 2, gotLimit)
}

func TestUserHandler_GetSubscriptions(t *testing.T) {
	var gotPage domain.PaginationRequest
	svc := &stubUserService{subscriptions: func(page domain.PaginationRequest, userID string, limit int) ([]domain.SubscribedAuthor, int64, error) {
		gotPage = page
		return []domain.SubscribedAuthor{{User: domain.User{ID: "chef"}}}, 1, nil
	}}
	app := newUserApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/users/subscriptions?limit=2", nil)
	req.Header.Set("X-Test-User", "me-1")
	res, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, domain.PaginationRequest{Page: 1, Limit: 2}, gotPage)
	results := decode(t, res).Data.(map[string]any)["results"].([]any)
	assert.Len(t, results, 1)
}
