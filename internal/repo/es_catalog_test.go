package repo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
)

type fakeES struct {
	mu      sync.Mutex
	docs    map[string]json.RawMessage
	lastReq map[string]any
}

func newFakeES(t *testing.T) (*fakeES, *ESCatalog) {
	t.Helper()

	f := &fakeES{docs: map[string]json.RawMessage{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)

	client, err := NewESClient(srv.URL, "", "")
	require.NoError(t, err)
	return f, &ESCatalog{ES: client, Index: "products"}
}

func (f *fakeES) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`)

	case len(parts) == 3 && parts[1] == "_doc" && r.Method == http.MethodGet:
		doc, ok := f.docs[parts[2]]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"_index":"products","_id":"`+parts[2]+`","found":false}`)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"_id": parts[2], "found": true, "_source": doc})

	case len(parts) == 3 && parts[1] == "_doc":
		body, _ := io.ReadAll(r.Body)
		f.docs[parts[2]] = body
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)

	case len(parts) == 2 && parts[1] == "_search":
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.lastReq = req

		hits := make([]map[string]any, 0, len(f.docs))
		for id, doc := range f.docs {
			hits = append(hits, map[string]any{"_id": id, "_source": doc})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"hits": map[string]any{"total": map[string]any{"value": len(hits)}, "hits": hits},
		})

	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"unexpected request"}`)
	}
}

func TestESCatalog_IndexAndGet(t *testing.T) {
	_, cat := newFakeES(t)
	ctx := context.Background()

	require.NoError(t, cat.Ping(ctx))

	require.NoError(t, cat.IndexProducts(ctx, []models.Product{
		{ID: "1", Title: "iPhone 13 Pro", Brand: "Apple", Price: 119900, DiscountPercentage: 10},
	}))

	p, err := cat.GetProduct(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "iPhone 13 Pro", p.Title)
	assert.Equal(t, 119900.0, p.Price)

	_, err = cat.GetProduct(ctx, "404")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestESCatalog_IndexStoresEffectivePrice(t *testing.T) {
	f, cat := newFakeES(t)

	require.NoError(t, cat.IndexProducts(context.Background(), []models.Product{
		{ID: "1", Price: 200, DiscountPercentage: 25},
	}))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(f.docs["1"], &doc))
	assert.Equal(t, 150.0, doc["effective_price"])
}

func TestESCatalog_BrowseBuildsFilters(t *testing.T) {
	f, cat := newFakeES(t)
	ctx := context.Background()

	require.NoError(t, cat.IndexProducts(ctx, []models.Product{{ID: "3", Title: "Sony", Brand: "Sony", Price: 24990}}))

	total, items, err := cat.Browse(ctx, ProductFilter{
		MinPrice: 500, MaxPrice: 50000, Brands: []string{"Sony"}, MinRating: 4, Sort: SortRating, Limit: 8,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "3", items[0].ID)

	require.NotNil(t, f.lastReq)
	assert.EqualValues(t, 8, f.lastReq["size"])
	filters := f.lastReq["query"].(map[string]any)["bool"].(map[string]any)["filter"].([]any)
	assert.Len(t, filters, 3)
	sort := f.lastReq["sort"].([]any)
	assert.Equal(t, map[string]any{"rating": "desc"}, sort[0])
}

func TestESCatalog_BrowseWithQuery(t *testing.T) {
	f, cat := newFakeES(t)
	ctx := context.Background()

	_, _, err := cat.Browse(ctx, ProductFilter{Query: "iphne", Limit: 8})
	require.NoError(t, err)

	boolQuery := f.lastReq["query"].(map[string]any)["bool"].(map[string]any)
	match := boolQuery["must"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "iphne", match["query"])
	assert.Equal(t, "AUTO", match["fuzziness"])
	assert.Empty(t, boolQuery["filter"])
}
