// Package search keeps the applications index in Elasticsearch and queries it.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"loan-broker/internal/common/logger"
	"loan-broker/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/shopspring/decimal"
)

// DefaultIndex is used when no index name is configured.
const DefaultIndex = "applications"

var (
	ErrDisabled    = errors.New("SEARCH_DISABLED")
	ErrIndexFailed = errors.New("SEARCH_INDEX_FAILED")
	ErrQueryFailed = errors.New("SEARCH_QUERY_FAILED")
)

// Mapping is the index definition created at startup.
const Mapping = `{
	"mappings": {
		"properties": {
			"applicationId": {"type": "long"},
			"applicantId":   {"type": "long"},
			"fullName":      {"type": "text"},
			"loanPurpose":   {"type": "text"},
			"employer":      {"type": "text"},
			"nationalId":    {"type": "keyword"},
			"amtRequired":   {"type": "scaled_float", "scaling_factor": 100},
			"deactivated":   {"type": "boolean"},
			"createdAt":     {"type": "date"}
		}
	}
}`

// Document is the indexed shape of an application.
type Document struct {
	ApplicationID int64           `json:"applicationId"`
	ApplicantID   int64           `json:"applicantId"`
	FullName      string          `json:"fullName"`
	LoanPurpose   string          `json:"loanPurpose"`
	Employer      string          `json:"employer"`
	NationalID    string          `json:"nationalId"`
	AmtRequired   decimal.Decimal `json:"amtRequired"`
	Deactivated   bool            `json:"deactivated"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func NewDocument(a *models.Application) Document {
	return Document{
		ApplicationID: a.ID,
		ApplicantID:   a.ApplicantID,
		FullName:      a.FullName,
		LoanPurpose:   a.LoanPurpose,
		Employer:      a.Employer,
		NationalID:    a.NationalID,
		AmtRequired:   a.AmtRequired,
		Deactivated:   a.Deactivated,
		CreatedAt:     a.CreatedAt,
	}
}

// Index writes and queries application documents. A nil client disables it: writes
// become no-ops and queries return ErrDisabled.
type Index struct {
	client *elasticsearch.Client
	name   string
	logger logger.Logger
}

func NewIndex(client *elasticsearch.Client, name string, log logger.Logger) *Index {
	if name == "" {
		name = DefaultIndex
	}
	return &Index{client: client, name: name, logger: log}
}

func (i *Index) Enabled() bool {
	return i != nil && i.client != nil
}

func (i *Index) Name() string {
	return i.name
}

// IndexApplication upserts the application's document, keyed by its id.
func (i *Index) IndexApplication(ctx context.Context, a *models.Application) error {
	if !i.Enabled() {
		return nil
	}

	body, err := json.Marshal(NewDocument(a))
	if err != nil {
		return fmt.Errorf("%w: encode document: %v", ErrIndexFailed, err)
	}

	res, err := esapi.IndexRequest{
		Index:      i.name,
		DocumentID: strconv.FormatInt(a.ID, 10),
		Body:       bytes.NewReader(body),
		Refresh:    "false",
	}.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrIndexFailed, res.String())
	}

	i.logger.Debug("application indexed", map[string]interface{}{
		"applicationId": a.ID,
		"index":         i.name,
	})
	return nil
}

// Query is a full-text search over applications.
type Query struct {
	Text string
	From int
	Size int
}

type Hit struct {
	ApplicationID int64           `json:"applicationId"`
	FullName      string          `json:"fullName"`
	LoanPurpose   string          `json:"loanPurpose"`
	AmtRequired   decimal.Decimal `json:"amtRequired"`
	Deactivated   bool            `json:"deactivated"`
}

type Result struct {
	Hits  []Hit `json:"hits"`
	Total int64 `json:"total"`
	Took  int64 `json:"took"`
}

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source Document `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Search runs q against the index.
func (i *Index) Search(ctx context.Context, q Query) (*Result, error) {
	if !i.Enabled() {
		return nil, ErrDisabled
	}

	body, err := json.Marshal(BuildQuery(q))
	if err != nil {
		return nil, fmt.Errorf("%w: encode query: %v", ErrQueryFailed, err)
	}

	from, size := q.From, q.Size
	res, err := esapi.SearchRequest{
		Index: []string{i.name},
		Body:  bytes.NewReader(body),
		From:  &from,
		Size:  &size,
	}.Do(ctx, i.client)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrQueryFailed, res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrQueryFailed, err)
	}

	out := &Result{Total: r.Hits.Total.Value, Took: r.Took, Hits: make([]Hit, 0, len(r.Hits.Hits))}
	for _, h := range r.Hits.Hits {
		out.Hits = append(out.Hits, Hit{
			ApplicationID: h.Source.ApplicationID,
			FullName:      h.Source.FullName,
			LoanPurpose:   h.Source.LoanPurpose,
			AmtRequired:   h.Source.AmtRequired,
			Deactivated:   h.Source.Deactivated,
		})
	}
	return out, nil
}
