package yahoo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"MarketGate/internal/domain/models"
)

type summaryBody struct {
	QuoteSummary *struct {
		Result []map[string]map[string]json.RawMessage `json:"result"`
		Error  *apiError                               `json:"error"`
	} `json:"quoteSummary"`
}

// parseSummary flattens all returned modules into one field map.
// Values are unwrapped from Yahoo's {"raw": x, "fmt": "..."} objects; empty
// strings and empty objects are absent fields.
func parseSummary(symbol string, status int, body []byte) (models.RawInfo, error) {
	var sb summaryBody
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&sb); err != nil {
		return nil, models.UpstreamError(status, "malformed quoteSummary payload").WithError(err)
	}
	if sb.QuoteSummary == nil {
		return nil, models.Internal(fmt.Errorf("quoteSummary %s: missing quoteSummary object", symbol))
	}
	if e := sb.QuoteSummary.Error; e != nil && e.Code != "" {
		if e.notFound() {
			return nil, models.SymbolNotFound(symbol)
		}
		return nil, models.UpstreamError(status, e.message())
	}
	if len(sb.QuoteSummary.Result) == 0 {
		return nil, models.SymbolNotFound(symbol)
	}

	info := models.RawInfo{}
	result := sb.QuoteSummary.Result[0]
	names := make([]string, 0, len(result))
	for name := range result {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for field, raw := range result[name] {
			if _, seen := info[field]; seen {
				continue
			}
			if v, ok := unwrapValue(raw); ok {
				info[field] = v
			}
		}
	}
	return info, nil
}

func unwrapValue(raw json.RawMessage) (any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	switch t := v.(type) {
	case nil:
		return nil, false
	case string:
		return t, t != ""
	case json.Number:
		return numberValue(t)
	case bool:
		return t, true
	case map[string]any:
		r, ok := t["raw"]
		if !ok {
			return nil, false
		}
		if n, ok := r.(json.Number); ok {
			return numberValue(n)
		}
		return r, r != nil
	}
	return nil, false
}

func numberValue(n json.Number) (any, bool) {
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	if f, err := n.Float64(); err == nil {
		return f, true
	}
	return nil, false
}
