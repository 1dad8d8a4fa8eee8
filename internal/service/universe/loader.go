package universe

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Values of the universe.source setting.
const (
	SourceEmbedded = "embedded"
	SourceFile     = "file"
	SourceRedis    = "redis"

	// MarketsKey is the Redis set listing the market keys.
	MarketsKey = "markets"
)

//go:embed universe.yaml
var embedded []byte

type document struct {
	Markets map[string][]string `yaml:"markets"`
}

// ListReader reads sets and lists from a key-value store.
type ListReader interface {
	Members(ctx context.Context, key string) ([]string, error)
	List(ctx context.Context, key string) ([]string, error)
}

// Parse decodes a universe YAML document.
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("universe: parse yaml: %w", err)
	}
	if len(doc.Markets) == 0 {
		return nil, fmt.Errorf("universe: no markets defined")
	}
	return NewTable(doc.Markets)
}

// LoadEmbedded returns the built-in table.
func LoadEmbedded() (*Table, error) {
	return Parse(embedded)
}

// LoadFile reads a universe YAML file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("universe: read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadRedis reads the MarketsKey set and one ordered list per market.
func LoadRedis(ctx context.Context, r ListReader) (*Table, error) {
	keys, err := r.Members(ctx, MarketsKey)
	if err != nil {
		return nil, fmt.Errorf("universe: %w", err)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("universe: redis set %s is empty", MarketsKey)
	}

	markets := make(map[string][]string, len(keys))
	for _, k := range keys {
		symbols, err := r.List(ctx, k)
		if err != nil {
			return nil, fmt.Errorf("universe: market %s: %w", k, err)
		}
		markets[k] = symbols
	}
	return NewTable(markets)
}
