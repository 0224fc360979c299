package products

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
)

const ProductIndex = "products"

type SearchIndex struct {
	Client *elasticsearch.Client
	Index  string
}

func NewSearchIndex(client *elasticsearch.Client) *SearchIndex {
	return &SearchIndex{Client: client, Index: ProductIndex}
}

func (s *SearchIndex) Search(ctx context.Context, query string, size int) (*SearchResult, error) {
	var body bytes.Buffer
	err := json.NewEncoder(&body).Encode(map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  query,
				"fields": []string{"name^2", "category.name", "operator.name", "product_type.name"},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	res, err := s.Client.Search(
		s.Client.Search.WithContext(ctx),
		s.Client.Search.WithIndex(s.Index),
		s.Client.Search.WithBody(&body),
		s.Client.Search.WithSize(size),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search %s: %s", s.Index, res.String())
	}

	var esRes EsResponse
	if err := json.NewDecoder(res.Body).Decode(&esRes); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	result := &SearchResult{
		Total:    esRes.Hits.Total.Value,
		Products: make([]ProductSearch, 0, len(esRes.Hits.Hits)),
	}
	for _, hit := range esRes.Hits.Hits {
		result.Products = append(result.Products, hit.Source)
	}

	return result, nil
}
