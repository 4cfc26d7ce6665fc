package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant/internal/models"
)

func TestCart_AddTwiceThenFetch(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	cookies := s.login(t, "alice")

	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodPost, "/api/cart/add", `{"dish_name":"Soup","qty":1,"price":5.5}`, cookies)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, `{"status":"added"}`, rec.Body.String())
	}

	rec := s.do(t, http.MethodGet, "/api/cart", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"dish_name":"Soup","price":5.5,"image":"`+models.PlaceholderImage+`","qty":2}]`, rec.Body.String())
}

func TestCart_AddValidation(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	cookies := s.login(t, "alice")

	rec := s.do(t, http.MethodPost, "/api/cart/add", `{"qty":1}`, cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, jsonErr("dish_name is required"), rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/cart/add", `{"dish_name":"Soup","qty":0}`, cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/cart/add", `not json`, cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCart_RequiresLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, jsonErr("login required"), rec.Body.String())
}

func TestCart_Remove(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	cookies := s.login(t, "alice")

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/cart/add", `{"dish_name":"Soup"}`, cookies).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/cart/add", `{"dish_name":"Tea"}`, cookies).Code)

	rec := s.do(t, http.MethodPost, "/api/cart/remove", `{"dish_name":"Soup"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"removed"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/cart", "", cookies)
	assert.NotContains(t, rec.Body.String(), "Soup")
	assert.Contains(t, rec.Body.String(), "Tea")

	rec = s.do(t, http.MethodPost, "/api/cart/remove", `{"dish_name":"Soup"}`, cookies)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/cart/remove", `{}`, cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCart_Replace(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	cookies := s.login(t, "alice")

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/cart/add", `{"dish_name":"Old"}`, cookies).Code)

	payload := `[{"dish_name":"Soup","qty":2,"price":5.5,"image":"soup.png"},{"dish_name":"Bread"}]`
	for i := 0; i < 2; i++ {
		rec := s.do(t, http.MethodPost, "/api/cart", payload, cookies)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	}

	rec := s.do(t, http.MethodGet, "/api/cart", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"dish_name":"Bread","price":0,"image":"`+models.PlaceholderImage+`","qty":1},
		{"dish_name":"Soup","price":5.5,"image":"soup.png","qty":2}
	]`, rec.Body.String())
}

func TestCart_ReplaceBadShape(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	cookies := s.login(t, "alice")

	for _, body := range []string{`{"dish_name":"Soup"}`, `"text"`, `[1,2]`, `[{"qty":1}]`} {
		rec := s.do(t, http.MethodPost, "/api/cart", body, cookies)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}

	rec := s.do(t, http.MethodPost, "/api/cart", `[]`, cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCart_Summary(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "alice")
	cookies := s.login(t, "alice")

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/cart",
		`[{"dish_name":"Soup","qty":2,"price":5.5},{"dish_name":"Tea","qty":1,"price":0.35}]`, cookies).Code)

	rec := s.do(t, http.MethodGet, "/api/cart/summary", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_items":3,"total_price":"11.35"}`, rec.Body.String())
}
