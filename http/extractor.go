// Package http implements the remote docbridge.SourceAdapter on top of a
// documentation extraction service reached over HTTP.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/docbridge"
)

const (
	// DefaultEndpoint is the extraction service URL.
	DefaultEndpoint = "https://api.context7.ai/v1/extract"

	// DefaultTimeout is generous because the service crawls the whole site
	// before answering.
	DefaultTimeout = 300 * time.Second

	// DefaultChunkSize and DefaultOverlap are passed to the service, which
	// does its own chunking.
	DefaultChunkSize = 1000
	DefaultOverlap   = 200

	maxErrorBody = 512
)

// Ensure Extractor implements docbridge.SourceAdapter at compile time.
var _ docbridge.SourceAdapter = (*Extractor)(nil)

// Extractor asks the extraction service for pre-chunked documentation of a
// remote source. It never retries; retry policy belongs to the caller.
type Extractor struct {
	client    *http.Client
	timeout   time.Duration
	endpoint  string
	apiKey    string
	limiter   docbridge.DomainLimiter
	chunkSize int
	overlap   int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTimeout sets the timeout for extraction requests.
// Defaults to DefaultTimeout (300s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		e.timeout = d
	}
}

// WithEndpoint overrides the extraction service URL.
func WithEndpoint(endpoint string) Option {
	return func(e *Extractor) {
		e.endpoint = endpoint
	}
}

// WithLimiter spaces requests for sources hosted on the same domain.
func WithLimiter(l docbridge.DomainLimiter) Option {
	return func(e *Extractor) {
		e.limiter = l
	}
}

// WithChunking sets the chunk size and overlap requested from the service.
func WithChunking(size, overlap int) Option {
	return func(e *Extractor) {
		e.chunkSize = size
		e.overlap = overlap
	}
}

// NewExtractor creates an Extractor authenticating with apiKey.
func NewExtractor(apiKey string, opts ...Option) *Extractor {
	e := &Extractor{
		timeout:   DefaultTimeout,
		endpoint:  DefaultEndpoint,
		apiKey:    apiKey,
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.client = &http.Client{
		Timeout: e.timeout,
	}

	return e
}

type extractRequest struct {
	URL             string `json:"url"`
	Framework       string `json:"framework"`
	ExtractCode     bool   `json:"extract_code"`
	ExtractExamples bool   `json:"extract_examples"`
	ChunkSize       int    `json:"chunk_size"`
	Overlap         int    `json:"overlap"`
}

type extractResponse struct {
	Documents []extractedDocument `json:"documents"`
}

type extractedDocument struct {
	Content    string `json:"content"`
	Type       string `json:"type"`
	Section    string `json:"section"`
	HasCode    bool   `json:"has_code"`
	TrustScore *int   `json:"trust_score"`
}

// Extract requests the documentation at src.Origin from the service.
func (e *Extractor) Extract(ctx context.Context, src *docbridge.Source) ([]*docbridge.RawUnit, error) {
	if e.apiKey == "" {
		return nil, docbridge.Errorf(docbridge.EINVALID, "extraction API key required")
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx, host(src.Origin)); err != nil {
			return nil, err
		}
	}

	body, err := json.Marshal(extractRequest{
		URL:             src.Origin,
		Framework:       src.Name,
		ExtractCode:     true,
		ExtractExamples: true,
		ChunkSize:       e.chunkSize,
		Overlap:         e.overlap,
	})
	if err != nil {
		return nil, fmt.Errorf("encode extraction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, docbridge.WrapError(docbridge.EEXTRACTION, err, "build extraction request for %s", src.Name)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, docbridge.WrapError(docbridge.EEXTRACTION, err, "extract %s", src.Name)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, docbridge.Errorf(docbridge.EEXTRACTION, "extract %s: HTTP %d: %s",
			src.Name, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, docbridge.WrapError(docbridge.EEXTRACTION, err, "decode extraction response for %s", src.Name)
	}

	units := make([]*docbridge.RawUnit, 0, len(out.Documents))
	for _, d := range out.Documents {
		units = append(units, &docbridge.RawUnit{
			Content:    d.Content,
			Type:       d.Type,
			Section:    d.Section,
			HasCode:    d.HasCode,
			TrustScore: d.TrustScore,
			Mode:       docbridge.ModeRemote,
		})
	}
	return units, nil
}

func host(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return strings.ToLower(u.Hostname())
}
