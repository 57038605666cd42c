package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/cardvault/internal/auth/domain"
	authHTTP "github.com/allisson/cardvault/internal/auth/http"
	authMocks "github.com/allisson/cardvault/internal/auth/usecase/mocks"
	cardDomain "github.com/allisson/cardvault/internal/card/domain"
	cardHTTP "github.com/allisson/cardvault/internal/card/http"
	cardMocks "github.com/allisson/cardvault/internal/card/usecase/mocks"
	"github.com/allisson/cardvault/internal/config"
	"github.com/allisson/cardvault/internal/metrics"
	userDomain "github.com/allisson/cardvault/internal/user/domain"
	userHTTP "github.com/allisson/cardvault/internal/user/http"
	userMocks "github.com/allisson/cardvault/internal/user/usecase/mocks"
)

const (
	userToken  = "user-token"
	adminToken = "admin-token"
)

type routerFixture struct {
	handler http.Handler
	auth    *authMocks.MockAuthUseCase
	users   *userMocks.MockUserUseCase
	cards   *cardMocks.MockCardUseCase
	user    *authDomain.Principal
	admin   *authDomain.Principal
}

func newRouterFixture(t *testing.T, cfg *config.Config, db *sql.DB) *routerFixture {
	t.Helper()

	if cfg.MetricsNamespace == "" {
		cfg.MetricsNamespace = "router_test"
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &routerFixture{
		auth:  &authMocks.MockAuthUseCase{},
		users: &userMocks.MockUserUseCase{},
		cards: &cardMocks.MockCardUseCase{},
		user: &authDomain.Principal{
			UserID:   uuid.Must(uuid.NewV7()),
			Username: "john",
			Role:     userDomain.RoleUser,
		},
		admin: &authDomain.Principal{
			UserID:   uuid.Must(uuid.NewV7()),
			Username: "root",
			Role:     userDomain.RoleAdmin,
		},
	}
	f.auth.On("Authenticate", mock.Anything, userToken).Return(f.user, nil).Maybe()
	f.auth.On("Authenticate", mock.Anything, adminToken).Return(f.admin, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	provider, err := metrics.NewProvider("router_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	server := NewServer(db, "localhost", 8080, logger)
	server.SetupRouter(ctx, cfg, RouterDeps{
		AuthUseCase:     f.auth,
		AuthHandler:     authHTTP.NewAuthHandler(f.auth, logger),
		UserHandler:     userHTTP.NewUserHandler(f.users, logger),
		CardHandler:     cardHTTP.NewCardHandler(f.cards, logger),
		TransferHandler: cardHTTP.NewTransferHandler(&cardMocks.MockTransferUseCase{}, logger),
		MetricsProvider: provider,
	})
	f.handler = server.GetHandler()
	return f
}

func (f *routerFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	f.handler.ServeHTTP(w, req)
	return w
}

func TestSetupRouter_Authorization(t *testing.T) {
	cfg := &config.Config{MetricsNamespace: "router_test"}

	t.Run("AnonymousRejected", func(t *testing.T) {
		f := newRouterFixture(t, cfg, nil)

		w := f.do(http.MethodGet, "/v1/cards", "", "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	})

	t.Run("UserReadsOwnActiveCards", func(t *testing.T) {
		f := newRouterFixture(t, cfg, nil)
		f.cards.On("ListActiveForOwner", mock.Anything, f.user.UserID).Return([]*cardDomain.Card{}, nil).Once()

		w := f.do(http.MethodGet, "/v1/cards/active", userToken, "")

		assert.Equal(t, http.StatusOK, w.Code)
		f.cards.AssertExpectations(t)
	})

	t.Run("UserCannotReachAdminRoutes", func(t *testing.T) {
		f := newRouterFixture(t, cfg, nil)

		for _, path := range []string{"/v1/admin/cards", "/v1/admin/users"} {
			w := f.do(http.MethodGet, path, userToken, "")
			assert.Equal(t, http.StatusForbidden, w.Code, path)
		}
		f.cards.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AdminListsUsers", func(t *testing.T) {
		f := newRouterFixture(t, cfg, nil)
		f.users.On("List", mock.Anything, 0, 10).Return([]*userDomain.User{}, nil).Once()

		w := f.do(http.MethodGet, "/v1/admin/users", adminToken, "")

		assert.Equal(t, http.StatusOK, w.Code)
		f.users.AssertExpectations(t)
	})

	t.Run("AdminActivatesCard", func(t *testing.T) {
		f := newRouterFixture(t, cfg, nil)
		id := uuid.Must(uuid.NewV7())
		f.cards.On("SetStatus", mock.Anything, id, cardDomain.StatusActive, f.admin.Scope()).
			Return(&cardDomain.Card{ID: id, Status: cardDomain.StatusActive}, nil).
			Once()

		w := f.do(http.MethodPost, "/v1/admin/cards/"+id.String()+"/activate", adminToken, "")

		assert.Equal(t, http.StatusOK, w.Code)
		f.cards.AssertExpectations(t)
	})

	t.Run("SignInIsPublic", func(t *testing.T) {
		f := newRouterFixture(t, cfg, nil)

		w := f.do(http.MethodPost, "/v1/auth/signin", "", "{")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.auth.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything)
	})
}

func TestSetupRouter_RateLimits(t *testing.T) {
	t.Run("SignInLimitedPerIP", func(t *testing.T) {
		cfg := &config.Config{
			RateLimitAuthEnabled:        true,
			RateLimitAuthRequestsPerSec: 0.001,
			RateLimitAuthBurst:          1,
		}
		f := newRouterFixture(t, cfg, nil)

		first := f.do(http.MethodPost, "/v1/auth/signin", "", "{")
		second := f.do(http.MethodPost, "/v1/auth/signin", "", "{")

		assert.Equal(t, http.StatusBadRequest, first.Code)
		assert.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.NotEmpty(t, second.Header().Get("Retry-After"))
	})

	t.Run("AuthenticatedLimitedPerUser", func(t *testing.T) {
		cfg := &config.Config{
			RateLimitEnabled:        true,
			RateLimitRequestsPerSec: 0.001,
			RateLimitBurst:          1,
		}
		f := newRouterFixture(t, cfg, nil)
		f.cards.On("ListActiveForOwner", mock.Anything, f.user.UserID).Return([]*cardDomain.Card{}, nil).Once()
		f.cards.On("ListActiveForOwner", mock.Anything, f.admin.UserID).Return([]*cardDomain.Card{}, nil).Once()

		assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/v1/cards/active", userToken, "").Code)
		assert.Equal(t, http.StatusTooManyRequests, f.do(http.MethodGet, "/v1/cards/active", userToken, "").Code)
		assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/v1/cards/active", adminToken, "").Code)
		f.cards.AssertExpectations(t)
	})
}

func TestReadinessHandler_Ready(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	dbMock.ExpectPing()

	f := newRouterFixture(t, &config.Config{}, db)
	w := f.do(http.MethodGet, "/ready", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ready", response["status"])
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestReadinessHandler_PingFails(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	dbMock.ExpectPing().WillReturnError(sql.ErrConnDone)

	f := newRouterFixture(t, &config.Config{}, db)
	w := f.do(http.MethodGet, "/ready", "", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestServer_StartWithoutRouter(t *testing.T) {
	server := createTestServer()

	err := server.Start(context.Background())

	assert.Error(t, err)
}

func TestServer_NoMetricsEndpoint(t *testing.T) {
	f := newRouterFixture(t, &config.Config{MetricsNamespace: "router_test"}, nil)

	w := f.do(http.MethodGet, "/metrics", "", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
