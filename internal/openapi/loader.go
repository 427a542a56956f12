package openapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/arielle-cli/internal/core/domain"
	"github.com/custodia-labs/arielle-cli/internal/core/ports/driven"
	"github.com/custodia-labs/arielle-cli/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.SpecLoader = (*Loader)(nil)

// DefaultFetchTimeout bounds a single spec download.
const DefaultFetchTimeout = 30 * time.Second

// Loader reads OpenAPI documents from disk or over HTTP(S).
// A single attempt is made; there is no retry.
type Loader struct {
	client *http.Client
	log    *logger.Logger
}

// NewLoader creates a loader. A nil client gets a default with DefaultFetchTimeout.
func NewLoader(client *http.Client, log *logger.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &Loader{client: client, log: log}
}

// IsURL reports whether source should be fetched over HTTP.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load returns the parsed, unvalidated document tree for source.
func (l *Loader) Load(ctx context.Context, source string) (any, error) {
	var (
		doc any
		err error
	)
	if IsURL(source) {
		doc, err = l.loadURL(ctx, source)
	} else {
		doc, err = l.loadFile(source)
	}
	if err != nil {
		l.log.Error("Failed to load OpenAPI spec: %v", err)
		return nil, &domain.LoadError{Source: source, Err: err}
	}
	return doc, nil
}

func (l *Loader) loadFile(path string) (any, error) {
	resolved, err := filepath.Abs(path)
	if err != nil {
		resolved = path
	}
	l.log.Debug("Loading OpenAPI spec from: %s", resolved)

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("File not found or not readable: %s", resolved)
	}

	if isYAMLName(path) {
		doc, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("Failed to parse YAML file: %w", err)
		}
		return doc, nil
	}

	doc, err := ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("Failed to parse JSON file: %w", err)
	}
	return doc, nil
}

func (l *Loader) loadURL(ctx context.Context, url string) (any, error) {
	l.log.Debug("Fetching OpenAPI spec from URL: %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	isJSON := strings.Contains(contentType, "application/json")
	isYAML := strings.Contains(contentType, "application/yaml") ||
		strings.Contains(contentType, "application/x-yaml") ||
		isYAMLName(url)

	var doc any
	switch {
	case isJSON:
		doc, err = ParseJSON(data)
	case isYAML:
		doc, err = ParseYAML(data)
	default:
		doc, err = ParseJSON(data)
		if err != nil {
			doc, err = ParseYAML(data)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("Failed to parse response: %w", err)
	}
	if doc == nil {
		return nil, errors.New("Failed to parse response: empty document")
	}
	return doc, nil
}

func isYAMLName(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
