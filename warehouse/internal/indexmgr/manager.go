// Package indexmgr manages warehouse index naming and templates.
package indexmgr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/flowmart-systems/orderflow-stack/warehouse/internal/client"
)

// Config holds index management settings.
type Config struct {
	IndexPrefix  string
	ShardCount   int
	ReplicaCount int
}

type IndexManager struct {
	client *client.OpenSearchClient
	config Config
}

func NewIndexManager(c *client.OpenSearchClient, cfg Config) *IndexManager {
	return &IndexManager{
		client: c,
		config: cfg,
	}
}

// IndexName derives the daily target index from a projection name and the
// record's partition keys: <prefix>-<projection>-YYYY.MM.DD. Records without
// full calendar keys land in a catch-all daily bucket.
func (m *IndexManager) IndexName(projection string, partitionKeys map[string]string) string {
	year, okY := partitionKeys["year"]
	month, okM := partitionKeys["month"]
	day, okD := partitionKeys["day"]
	if !okY || !okM || !okD {
		return fmt.Sprintf("%s-%s-unpartitioned", m.config.IndexPrefix, projection)
	}
	return fmt.Sprintf("%s-%s-%s.%s.%s", m.config.IndexPrefix, projection, year, month, day)
}

// Initialize installs the index template covering all warehouse indices.
func (m *IndexManager) Initialize(ctx context.Context) error {
	template := map[string]interface{}{
		"index_patterns": []string{m.config.IndexPrefix + "-*"},
		"template": map[string]interface{}{
			"settings": map[string]interface{}{
				"number_of_shards":   m.config.ShardCount,
				"number_of_replicas": m.config.ReplicaCount,
				"codec":              "best_compression",
			},
			"mappings": m.mappings(),
		},
		"priority": 100,
	}

	body, err := json.Marshal(template)
	if err != nil {
		return err
	}

	res, err := m.client.Client().Indices.PutIndexTemplate(
		m.config.IndexPrefix+"-template",
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("failed to create index template: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("failed to create index template: %s - %s", res.Status(), string(msg))
	}

	return nil
}

func (m *IndexManager) mappings() map[string]interface{} {
	keyword := map[string]interface{}{"type": "keyword"}
	return map[string]interface{}{
		"properties": map[string]interface{}{
			"order_id":    keyword,
			"customer_id": keyword,
			"product_id":  keyword,
			"status":      keyword,
			"country":     keyword,
			"order_date":  map[string]interface{}{"type": "date", "format": "yyyy-MM-dd"},
			"quantity":    map[string]interface{}{"type": "integer"},
		},
	}
}
