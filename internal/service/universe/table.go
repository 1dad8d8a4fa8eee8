// Package universe holds the static market key to symbol list table.
package universe

import (
	"fmt"
	"sort"
	"strings"

	"MarketGate/internal/domain/models"
	domsvc "MarketGate/internal/domain/service"
)

// Table is an immutable universe lookup safe for concurrent use.
type Table struct {
	markets map[string][]string
	keys    []string
}

// NewTable builds a table. Keys are stored upper-cased; empty symbols are dropped
// and a market must keep at least one symbol.
func NewTable(markets map[string][]string) (*Table, error) {
	t := &Table{markets: make(map[string][]string, len(markets))}
	for key, symbols := range markets {
		k := canonicalKey(key)
		if k == "" {
			return nil, fmt.Errorf("universe: empty market key")
		}
		if _, dup := t.markets[k]; dup {
			return nil, fmt.Errorf("universe: duplicate market %s", k)
		}
		list := make([]string, 0, len(symbols))
		for _, s := range symbols {
			if s = strings.TrimSpace(s); s != "" {
				list = append(list, s)
			}
		}
		if len(list) == 0 {
			return nil, fmt.Errorf("universe: market %s has no symbols", k)
		}
		t.markets[k] = list
		t.keys = append(t.keys, k)
	}
	sort.Strings(t.keys)
	return t, nil
}

// Resolve returns a copy of the market's symbols. Unknown keys fail with UnknownMarket.
func (t *Table) Resolve(market string) (models.Universe, error) {
	k := canonicalKey(market)
	if k == "" {
		return models.Universe{}, models.InvalidRequest("market is required")
	}
	symbols, ok := t.markets[k]
	if !ok {
		return models.Universe{}, models.UnknownMarket(market)
	}
	return models.Universe{Market: k, Symbols: append([]string(nil), symbols...)}, nil
}

// Markets lists the known keys in sorted order.
func (t *Table) Markets() []string {
	return append([]string(nil), t.keys...)
}

func canonicalKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

var _ domsvc.UniverseResolver = (*Table)(nil)
