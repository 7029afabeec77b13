package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/distrischool/identity/internal/api"
	"github.com/distrischool/identity/internal/audit"
	"github.com/distrischool/identity/internal/config"
	"github.com/distrischool/identity/internal/domain"
	internal_errors "github.com/distrischool/identity/internal/errors"
	"github.com/distrischool/identity/internal/middleware"
	"github.com/distrischool/identity/internal/password"
	"github.com/distrischool/identity/internal/service"
	"github.com/distrischool/identity/internal/token"
)

// memStorage is a map-backed identity store for the full-pipeline test.
type memStorage struct {
	mu    sync.Mutex
	users map[domain.Email]domain.User
}

func (s *memStorage) SaveUser(ctx context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Email]; ok {
		return &internal_errors.ErrorWithStatusCode{Message: "Email already in use", StatusCode: http.StatusConflict}
	}
	s.users[user.Email] = user
	return nil
}

func (s *memStorage) UserByEmail(ctx context.Context, email domain.Email) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return domain.User{}, &internal_errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
	}
	return user, nil
}

type recordingChannel struct {
	mu   sync.Mutex
	sent []string
}

func (c *recordingChannel) Send(ctx context.Context, topic, payload string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, topic+":"+payload)
	return nil
}

func TestRegisterLoginScenario(t *testing.T) {
	tokens, err := token.New(base64.StdEncoding.EncodeToString([]byte("scenario-key")), time.Hour)
	require.NoError(t, err)

	channel := &recordingChannel{}
	publisher := audit.NewPublisher(channel, 8)
	defer publisher.Close()

	auth := service.NewAuth(&memStorage{users: map[domain.Email]domain.User{}}, password.NewBcrypt(), tokens, publisher)
	cfg := &config.Config{Public: config.Public{JwtTTLSeconds: 3600}}
	h := New(auth, cfg)
	authMw := middleware.NewAuth(tokens)

	r := chi.NewRouter()
	r.Post("/v1/auth/register", h.Register)
	r.Post("/v1/auth/login", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(authMw.NeedAuth())
		r.Get("/v1/auth/me", h.Me)
	})

	// Register
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, createRequest(t, http.MethodPost, "/v1/auth/register",
		[]byte(`{"email": "a@x.com", "password": "secret123", "role": "STUDENT"}`)))
	require.Equal(t, http.StatusCreated, rr.Code)

	var registered api.RegisterResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &registered))
	assert.NotEqual(t, uuid.Nil, registered.Id)
	assert.Equal(t, "a@x.com", registered.Email)
	assert.Equal(t, domain.RoleStudent, registered.Role)

	// Login with the right password
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, createRequest(t, http.MethodPost, "/v1/auth/login",
		[]byte(`{"email": "a@x.com", "password": "secret123"}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	var login api.LoginResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	require.NotEmpty(t, login.AccessToken)

	// The token round-trips through the protected endpoint
	req := createRequest(t, http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var me api.MeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.Equal(t, "a@x.com", me.Email)
	assert.Equal(t, "STUDENT", me.Role)

	// Wrong password
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, createRequest(t, http.MethodPost, "/v1/auth/login",
		[]byte(`{"email": "a@x.com", "password": "wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// Re-register the same email
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, createRequest(t, http.MethodPost, "/v1/auth/register",
		[]byte(`{"email": "a@x.com", "password": "another", "role": "STUDENT"}`)))
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Exactly one audit event, for the one successful login
	publisher.Close()
	channel.mu.Lock()
	defer channel.mu.Unlock()
	require.Len(t, channel.sent, 1)
	assert.Equal(t, "user.logged:a@x.com", channel.sent[0])
}
