package financego

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"MarketGate/internal/domain/models"
	xhttp "MarketGate/pkg/http"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/form"
)

// errNotFound carries "Not Found" in its text because equity wraps errors by message.
var errNotFound = errors.New("upstream: Not Found")

// envelope is the part of a chart or quote payload checked before the library decodes it.
type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// inspect returns the embedded error code and whether the result array is empty.
func inspect(body []byte) (code string, empty bool) {
	var top map[string]envelope
	if err := json.Unmarshal(body, &top); err != nil {
		return "", false
	}
	for _, env := range top {
		if env.Error != nil && env.Error.Code != "" {
			return env.Error.Code, false
		}
		r := strings.TrimSpace(string(env.Result))
		if r == "" || r == "null" || r == "[]" {
			empty = true
		}
	}
	return "", empty
}

// guardedBackend screens payloads of another backend before the library decodes them.
type guardedBackend struct {
	next finance.Backend
}

func (g guardedBackend) Call(path string, body *form.Values, ctx *context.Context, v interface{}) error {
	var raw json.RawMessage
	if err := g.next.Call(path, body, ctx, &raw); err != nil {
		return err
	}
	// chart.Get indexes result[0] unchecked, so an empty result must stop here.
	if code, empty := inspect(raw); code == "Not Found" || empty {
		return errNotFound
	}
	return json.Unmarshal(raw, v)
}

// HTTPBackend is a finance.Backend over the shared pooled client. Unlike the
// library's own backend it keeps the upstream status and error body.
type HTTPBackend struct {
	client  *xhttp.Client
	baseURL string
}

// NewBackend creates a backend rooted at baseURL.
func NewBackend(client *xhttp.Client, baseURL string) *HTTPBackend {
	if client == nil {
		client = xhttp.NewClient()
	}
	return &HTTPBackend{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (b *HTTPBackend) Call(path string, body *form.Values, ctx *context.Context, v interface{}) error {
	c := context.Background()
	if ctx != nil && *ctx != nil {
		c = *ctx
	}

	opts := &xhttp.RequestOptions{URL: b.baseURL + "/" + strings.TrimLeft(path, "/")}
	if body != nil && !body.Empty() {
		opts.QueryParams = body.ToValues()
	}

	resp, err := b.client.SendRequest(c, opts)
	if err != nil {
		return err
	}
	if !resp.OK() {
		if code, _ := inspect(resp.Body); code == "Not Found" {
			return errNotFound
		}
		return models.UpstreamError(resp.StatusCode, fmt.Sprintf("upstream status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return models.UpstreamError(resp.StatusCode, "malformed upstream payload").WithError(err)
	}
	return nil
}

var (
	_ finance.Backend = guardedBackend{}
	_ finance.Backend = (*HTTPBackend)(nil)
)
