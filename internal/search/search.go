package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"
)

var ErrDisabled = errors.New("search disabled")

// Dish is the document stored in the menu index.
type Dish struct {
	MenuID      uint    `json:"menu_id"`
	DishName    string  `json:"dish_name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Ingredients string  `json:"ingredients"`
}

type Results struct {
	Total int64
	Items []Dish
}

type Config struct {
	URL      string
	User     string
	Password string
	Index    string
}

// MenuIndex is a menu search backed by Elasticsearch. A nil *MenuIndex is
// valid and reports ErrDisabled.
type MenuIndex struct {
	es    *elasticsearch.Client
	index string
}

// New returns nil without error when no URL is configured.
func New(cfg Config) (*MenuIndex, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	index := cfg.Index
	if index == "" {
		index = "menu"
	}
	return &MenuIndex{es: client, index: index}, nil
}

func (m *MenuIndex) Enabled() bool {
	return m != nil && m.es != nil
}

func (m *MenuIndex) Ping(ctx context.Context) error {
	if !m.Enabled() {
		return ErrDisabled
	}
	res, err := m.es.Info(m.es.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("info", res.Status(), res.Body)
	}
	return nil
}

// IndexDishes upserts every dish under its menu id.
func (m *MenuIndex) IndexDishes(ctx context.Context, dishes []Dish) error {
	if !m.Enabled() {
		return ErrDisabled
	}
	for _, d := range dishes {
		body, err := json.Marshal(d)
		if err != nil {
			return err
		}
		res, err := m.es.Index(
			m.index,
			bytes.NewReader(body),
			m.es.Index.WithContext(ctx),
			m.es.Index.WithDocumentID(strconv.FormatUint(uint64(d.MenuID), 10)),
			m.es.Index.WithRefresh("true"),
		)
		if err != nil {
			return fmt.Errorf("index dish %q: %w", d.DishName, err)
		}
		if res.IsError() {
			err := responseError("index", res.Status(), res.Body)
			res.Body.Close()
			return err
		}
		res.Body.Close()
	}
	return nil
}

func (m *MenuIndex) Search(ctx context.Context, query string, from, size int) (Results, error) {
	if !m.Enabled() {
		return Results{}, ErrDisabled
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return Results{Items: []Dish{}}, nil
	}

	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"dish_name^2", "description", "ingredients"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return Results{}, err
	}

	res, err := m.es.Search(
		m.es.Search.WithContext(ctx),
		m.es.Search.WithIndex(m.index),
		m.es.Search.WithBody(&buf),
	)
	if err != nil {
		return Results{}, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return Results{}, responseError("search", res.Status(), res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source Dish `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return Results{}, fmt.Errorf("decode search response: %w", err)
	}

	items := make([]Dish, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return Results{Total: r.Hits.Total.Value, Items: items}, nil
}

func responseError(op, status string, body io.Reader) error {
	b, _ := io.ReadAll(io.LimitReader(body, 1024))
	return fmt.Errorf("elasticsearch %s: %s: %s", op, status, strings.TrimSpace(string(b)))
}
