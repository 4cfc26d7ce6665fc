package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
	"github.com/Skotchmaster/restaurant/pkg/db"
	"github.com/Skotchmaster/restaurant/pkg/metrics"
	authmw "github.com/Skotchmaster/restaurant/pkg/middleware/auth"
)

type testServer struct {
	e    *echo.Echo
	repo *repo.GormRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, repo.Migrate(ctx, gdb))

	r := &repo.GormRepo{DB: gdb}
	authSvc := &service.AuthService{
		Repo:          r,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
	m := metrics.New("restaurant_test", prometheus.NewRegistry())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e, err := NewEcho(logger, m)
	require.NoError(t, err)
	Register(e, &Deps{
		DB:             gdb,
		CartHandler:    &CartHTTP{Svc: &service.CartService{Repo: r}},
		ProfileHandler: &ProfileHTTP{Svc: &service.ProfileService{Repo: r}},
		AuthHandler:    &AuthHTTP{Svc: authSvc},
		MenuHandler:    &MenuHTTP{Svc: &service.MenuService{Repo: r}},
		Auth:           authmw.NewAutoRefreshMiddleware(authSvc.JWTSecret, authSvc, false),
		Metrics:        m,
	})
	return &testServer{e: e, repo: r}
}

func (s *testServer) do(t *testing.T, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, login string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/register",
		`{"login":"`+login+`","password":"secret","full_name":"Doe John","passport":"1234567890","bank_card":"4111111111111111"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

// login returns the session cookies for a registered user.
func (s *testServer) login(t *testing.T, login string) []*http.Cookie {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/login", `{"login":"`+login+`","password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	return cookies
}

func (s *testServer) seedMenu(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.repo.SeedDish(ctx, &models.Menu{DishName: "Soup", Price: 5.5, ImageURL: "soup.png"}, []string{"Water", "Salt"}))
	require.NoError(t, s.repo.SeedDish(ctx, &models.Menu{DishName: "Bread", Price: 1}, nil))
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func jsonErr(msg string) string {
	b, _ := json.Marshal(transport.ErrorResponse{Error: msg})
	return string(b)
}

func (s *testServer) postForm(t *testing.T, path string, v url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(v.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}
