// Package es provides the Elasticsearch client used by the knowledge index.
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"hissenet-chatbot/internal/config"
	"hissenet-chatbot/internal/model"
	"hissenet-chatbot/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ESClient *elasticsearch.Client

// InitES initializes the Elasticsearch client and makes sure the knowledge
// index exists with the expected mapping. dims is the embedding dimension
// of the index; every record written to it must carry a vector of exactly
// that length.
func InitES(esCfg config.ElasticsearchConfig, dims int) error {
	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}
	ESClient = client
	return createIndexIfNotExists(esCfg.IndexName, dims)
}

// createIndexIfNotExists creates the knowledge index when missing.
func createIndexIfNotExists(indexName string, dims int) error {
	existsRes, err := ESClient.Indices.Exists([]string{indexName})
	if err != nil {
		log.Errorf("failed to check whether index exists: %v", err)
		return err
	}
	defer existsRes.Body.Close()
	if !existsRes.IsError() && existsRes.StatusCode == http.StatusOK {
		log.Infof("index '%s' already exists", indexName)
		return nil
	}
	if existsRes.StatusCode != http.StatusNotFound {
		log.Errorf("unexpected status %d while checking index '%s'", existsRes.StatusCode, indexName)
		return fmt.Errorf("unexpected status while checking index: %d", existsRes.StatusCode)
	}

	// question_embedding uses cosine similarity; Elasticsearch reports
	// knn scores as (1 + cosine) / 2, so they land in (0, 1].
	mapping := fmt.Sprintf(`{
		"mappings": {
			"properties": {
				"record_id": { "type": "keyword" },
				"question": { "type": "text" },
				"answer": { "type": "text" },
				"question_embedding": {
					"type": "dense_vector",
					"dims": %d,
					"index": true,
					"similarity": "cosine"
				},
				"model_version": { "type": "keyword" }
			}
		}
	}`, dims)

	res, err := ESClient.Indices.Create(
		indexName,
		ESClient.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		log.Errorf("failed to create index '%s': %v", indexName, err)
		return err
	}
	defer res.Body.Close()
	if res.IsError() {
		log.Errorf("elasticsearch returned an error creating index '%s': %s", indexName, res.String())
		return errors.New("elasticsearch returned an error creating index")
	}

	log.Infof("index '%s' created", indexName)
	return nil
}

// IndexRecord writes a single knowledge record to the index, keyed by its
// record ID so re-ingestion overwrites instead of duplicating.
func IndexRecord(ctx context.Context, indexName string, rec model.KnowledgeRecord) error {
	recBytes, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: rec.RecordID,
		Body:       bytes.NewReader(recBytes),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("failed to index knowledge record: %s", res.String())
		return errors.New("failed to index record")
	}

	return nil
}
