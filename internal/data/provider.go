// Package data implements the provider boundary that feeds tabular
// records into the rendering engine.
//
// Providers fetch raw payloads from JSON documents, HTTP endpoints, or
// preloaded snapshots and shape them into []Record. Payload shaping is
// deliberately defensive: only array-shaped payloads (or the first
// array-valued field of an object payload) are accepted, anything else is
// treated as empty rather than an error.
package data

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"github.com/chartel-dev/chartel/internal/errors"
	"github.com/chartel-dev/chartel/internal/spec"
)

// Record is one generic row. Its schema comes from the data source, not
// the spec.
type Record = map[string]interface{}

// Provider supplies validated tabular records for a data binding.
type Provider interface {
	Fetch(ctx context.Context, binding spec.DataBinding) ([]Record, error)
}

// Shape extracts the record array from a decoded payload. Top-level arrays
// are used directly; for object payloads the first array-valued field (in
// key-sorted order for determinism) is used; anything else yields nil.
func Shape(payload interface{}) []Record {
	switch v := payload.(type) {
	case []interface{}:
		return toRecords(v)
	case map[string]interface{}:
		for _, key := range sortedKeys(v) {
			if arr, ok := v[key].([]interface{}); ok {
				return toRecords(arr)
			}
		}
	}
	return nil
}

func toRecords(arr []interface{}) []Record {
	records := make([]Record, 0, len(arr))
	for _, item := range arr {
		if row, ok := item.(map[string]interface{}); ok {
			records = append(records, row)
		}
	}
	return records
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

// JSONProvider reads records from a JSON document on disk (or any byte
// payload handed to it directly).
type JSONProvider struct{}

// Fetch implements Provider. The binding's query source is the file path.
func (JSONProvider) Fetch(ctx context.Context, binding spec.DataBinding) ([]Record, error) {
	raw, err := os.ReadFile(binding.Query.Source)
	if err != nil {
		return nil, errors.NewDataFetchError(binding.Provider, err)
	}
	return Decode(binding.Provider, raw)
}

// Decode parses a raw JSON payload and shapes it into records.
func Decode(provider string, raw []byte) ([]Record, error) {
	var payload interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.NewDataFetchError(provider, fmt.Errorf("parsing payload: %w", err))
	}
	return Shape(payload), nil
}

// HTTPProvider fetches records over HTTP. The binding's query source is
// the URL; query params become URL query parameters.
type HTTPProvider struct {
	Client *http.Client
}

// Fetch implements Provider.
func (p HTTPProvider) Fetch(ctx context.Context, binding spec.DataBinding) ([]Record, error) {
	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, binding.Query.Source, nil)
	if err != nil {
		return nil, errors.NewDataFetchError(binding.Provider, err)
	}
	if len(binding.Query.Params) > 0 {
		q := req.URL.Query()
		for k, v := range binding.Query.Params {
			q.Set(k, fmt.Sprint(v))
		}
		req.URL.RawQuery = q.Encode()
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.NewDataFetchError(binding.Provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.NewDataFetchError(binding.Provider, fmt.Errorf("unexpected status %s", resp.Status))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, errors.NewDataFetchError(binding.Provider, err)
	}
	return Decode(binding.Provider, raw)
}

// StaticProvider serves a preloaded snapshot, used by tests and by the
// preview server after the first fetch in snapshot sync mode.
type StaticProvider struct {
	Records []Record
	Err     error
}

// Fetch implements Provider.
func (p StaticProvider) Fetch(ctx context.Context, binding spec.DataBinding) ([]Record, error) {
	if p.Err != nil {
		return nil, errors.NewDataFetchError(binding.Provider, p.Err)
	}
	return p.Records, nil
}

// ForBinding selects a provider implementation by binding kind.
func ForBinding(binding spec.DataBinding) (Provider, error) {
	switch binding.Kind {
	case "json", "":
		return JSONProvider{}, nil
	case "http":
		return HTTPProvider{}, nil
	default:
		return nil, errors.NewDataFetchError(binding.Provider,
			fmt.Errorf("no provider implementation for kind %q", binding.Kind))
	}
}
