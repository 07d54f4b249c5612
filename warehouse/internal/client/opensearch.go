// Package client wraps the OpenSearch connection for the warehouse sink.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"sync"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchutil"
)

// Config holds OpenSearch connection settings.
type Config struct {
	URL      string
	Username string
	Password string
	Insecure bool
}

type OpenSearchClient struct {
	client *opensearch.Client
}

func NewOpenSearchClient(cfg Config) (*OpenSearchClient, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.Insecure,
			},
		},
	}

	osCfg := opensearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: httpClient.Transport,
	}

	client, err := opensearch.NewClient(osCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create opensearch client: %w", err)
	}

	info, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to ping opensearch: %w", err)
	}
	defer info.Body.Close()

	if info.IsError() {
		return nil, fmt.Errorf("opensearch returned error: %s", info.Status())
	}

	return &OpenSearchClient{client: client}, nil
}

func (c *OpenSearchClient) Client() *opensearch.Client {
	return c.client
}

// Document is one bulk-index item. The explicit document id makes
// redelivered records overwrite rather than duplicate.
type Document struct {
	Index string
	ID    string
	Body  []byte
}

// BulkIndex writes documents through the bulk API in one flush. The
// returned slice parallels docs; a non-nil entry is that document's
// failure. The error return covers the flush itself.
func (c *OpenSearchClient) BulkIndex(ctx context.Context, docs []Document) ([]error, error) {
	bi, err := opensearchutil.NewBulkIndexer(opensearchutil.BulkIndexerConfig{
		Client: c.client,
	})
	if err != nil {
		return nil, fmt.Errorf("create bulk indexer: %w", err)
	}

	errs := make([]error, len(docs))
	var mu sync.Mutex

	for i, doc := range docs {
		err := bi.Add(ctx, opensearchutil.BulkIndexerItem{
			Index:      doc.Index,
			Action:     "index",
			DocumentID: doc.ID,
			Body:       bytes.NewReader(doc.Body),
			OnFailure: func(_ context.Context, _ opensearchutil.BulkIndexerItem, res opensearchutil.BulkIndexerResponseItem, err error) {
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					errs[i] = err
					return
				}
				errs[i] = fmt.Errorf("%s: %s", res.Error.Type, res.Error.Reason)
			},
		})
		if err != nil {
			mu.Lock()
			errs[i] = fmt.Errorf("add to bulk indexer: %w", err)
			mu.Unlock()
		}
	}

	if err := bi.Close(ctx); err != nil {
		return errs, fmt.Errorf("flush bulk indexer: %w", err)
	}

	return errs, nil
}
