package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/AliakbarCal15/Internship-Task-39/internal/models"
)

// ESCatalog serves the catalog out of an Elasticsearch index. Documents are
// products plus a precomputed effective_price so price filters stay in the query.
type ESCatalog struct {
	ES    *elasticsearch.Client
	Index string
}

type esProduct struct {
	models.Product
	EffectivePrice float64 `json:"effective_price"`
}

func NewESClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return client, nil
}

func (r *ESCatalog) Ping(ctx context.Context) error {
	res, err := r.ES.Info(r.ES.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch info: %s", res.Status())
	}
	return nil
}

func (r *ESCatalog) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	res, err := r.ES.Get(r.Index, id, r.ES.Get.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch get %s: %w", id, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch get %s: %s", id, res.Status())
	}

	var doc struct {
		Found  bool      `json:"found"`
		Source esProduct `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode product %s: %w", id, err)
	}
	if !doc.Found {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}

	p := doc.Source.Product
	if p.ID == "" {
		p.ID = id
	}
	return &p, nil
}

func (r *ESCatalog) Browse(ctx context.Context, f ProductFilter) (int64, []models.Product, error) {
	filters := make([]map[string]any, 0, 4)

	priceRange := map[string]any{}
	if f.MinPrice > 0 {
		priceRange["gte"] = f.MinPrice
	}
	if f.MaxPrice > 0 {
		priceRange["lte"] = f.MaxPrice
	}
	if len(priceRange) > 0 {
		filters = append(filters, map[string]any{"range": map[string]any{"effective_price": priceRange}})
	}
	if len(f.Brands) > 0 {
		filters = append(filters, map[string]any{"terms": map[string]any{"brand.keyword": f.Brands}})
	}
	if f.Category != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"category.keyword": f.Category}})
	}
	if f.MinRating > 0 {
		filters = append(filters, map[string]any{"range": map[string]any{"rating": map[string]any{"gte": f.MinRating}}})
	}

	boolQuery := map[string]any{"filter": filters}
	if f.Query != "" {
		boolQuery["must"] = map[string]any{
			"multi_match": map[string]any{
				"query":     f.Query,
				"fields":    []string{"title^2", "brand", "description"},
				"fuzziness": "AUTO",
			},
		}
	}

	body := map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"sort":  esSort(f.Sort),
		"from":  f.Offset,
		"size":  f.Limit,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("encode search: %w", err)
	}

	res, err := r.ES.Search(
		r.ES.Search.WithContext(ctx),
		r.ES.Search.WithIndex(r.Index),
		r.ES.Search.WithBody(&buf),
		r.ES.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("elasticsearch search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("elasticsearch search: %s", res.Status())
	}

	var out struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string    `json:"_id"`
				Source esProduct `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, nil, fmt.Errorf("decode search: %w", err)
	}

	items := make([]models.Product, 0, len(out.Hits.Hits))
	for _, hit := range out.Hits.Hits {
		p := hit.Source.Product
		if p.ID == "" {
			p.ID = hit.ID
		}
		items = append(items, p)
	}
	return out.Hits.Total.Value, items, nil
}

func esSort(sort string) []map[string]any {
	var primary map[string]any
	switch sort {
	case SortPriceAsc:
		primary = map[string]any{"price": "asc"}
	case SortPriceDesc:
		primary = map[string]any{"price": "desc"}
	case SortRating:
		primary = map[string]any{"rating": "desc"}
	default:
		primary = map[string]any{"popularity": "desc"}
	}
	return []map[string]any{primary, {"id.keyword": "asc"}}
}

// IndexProducts writes products into the index, replacing documents with the same id.
func (r *ESCatalog) IndexProducts(ctx context.Context, products []models.Product) error {
	for i := range products {
		doc := esProduct{Product: products[i], EffectivePrice: products[i].EffectivePrice()}
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode product %s: %w", doc.ID, err)
		}

		res, err := r.ES.Index(
			r.Index,
			bytes.NewReader(data),
			r.ES.Index.WithContext(ctx),
			r.ES.Index.WithDocumentID(doc.ID),
			r.ES.Index.WithRefresh("wait_for"),
		)
		if err != nil {
			return fmt.Errorf("index product %s: %w", doc.ID, err)
		}
		isErr, status := res.IsError(), res.Status()
		_, _ = io.Copy(io.Discard, res.Body)
		res.Body.Close()
		if isErr {
			return fmt.Errorf("index product %s: %s", doc.ID, status)
		}
	}
	return nil
}
