package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant/internal/service"
	"github.com/Skotchmaster/restaurant/internal/transport"
)

func TestMenu_JSONAndPage(t *testing.T) {
	s := newTestServer(t)
	s.seedMenu(t)
	s.register(t, "alice")
	cookies := s.login(t, "alice")

	rec := s.do(t, http.MethodGet, "/api/menu", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []transport.MenuItemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Water, Salt", items[0].Ingredients)
	assert.Equal(t, service.NoIngredients, items[1].Ingredients)

	page := s.do(t, http.MethodGet, "/visitor", "", cookies)
	require.Equal(t, http.StatusOK, page.Code)
	body := page.Body.String()
	assert.Contains(t, body, "Soup")
	assert.Contains(t, body, "Water, Salt")
	assert.Contains(t, body, service.NoIngredients)
	assert.Contains(t, body, "alice")
}

func TestMenu_SearchDisabled(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	cookies := s.login(t, "alice")

	rec := s.do(t, http.MethodGet, "/api/menu/search?q=soup", "", cookies)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, jsonErr("search disabled"), rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/menu/search", "", cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", "", nil).Code)

	rec := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "restaurant_test_http_requests_total")
}
