package shared

import (
	"fmt"
	"net"

	"github.com/elastic/go-elasticsearch/v8"
)

// NewElasticsearch returns a nil client when no ES_HOST is configured.
// Unlike the other clients it fails on a malformed address.
func NewElasticsearch(cfg *Config) (*elasticsearch.Client, error) {
	if cfg.ESHost == "" {
		return nil, nil
	}

	port := cfg.ESPort
	if port == "" {
		port = "9200"
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{fmt.Sprintf("http://%s", net.JoinHostPort(cfg.ESHost, port))},
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	return client, nil
}
