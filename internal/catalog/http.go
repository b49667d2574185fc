package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"listkit/internal/infra/logx"
)

// HTTPOptions tunes the HTTP client. Zero values pick the defaults.
type HTTPOptions struct {
	Token        string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// HTTPSource reads entries from a listkit server.
type HTTPSource struct {
	base    string
	token   string
	http    *http.Client
	metrics *Metrics
}

var (
	_ Source  = (*HTTPSource)(nil)
	_ Mutator = (*HTTPSource)(nil)
)

type pageResp struct {
	Entries []Entry `json:"entries"`
	Page    int     `json:"page"`
}

type entryResp struct {
	Entry Entry `json:"entry"`
}

type createReq struct {
	Title string `json:"title"`
}

type errorResp struct {
	Error string `json:"error"`
}

func NewHTTPSource(baseURL string, opts HTTPOptions) *HTTPSource {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RetryMax <= 0 {
		opts.RetryMax = 3
	}
	if opts.RetryWaitMin <= 0 {
		opts.RetryWaitMin = 200 * time.Millisecond
	}
	if opts.RetryWaitMax <= 0 {
		opts.RetryWaitMax = 2 * time.Second
	}
	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = opts.Timeout
	rc.RetryMax = opts.RetryMax
	rc.RetryWaitMin = opts.RetryWaitMin
	rc.RetryWaitMax = opts.RetryWaitMax
	rc.Logger = logx.Leveled{}
	m := &Metrics{}
	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		m.incRequest(req.Method, attempt)
	}
	rc.ResponseLogHook = func(_ retryablehttp.Logger, res *http.Response) {
		m.incStatus(res.StatusCode)
	}
	if opts.Token != "" {
		logx.RegisterSecret(opts.Token)
	}
	return &HTTPSource{
		base:    strings.TrimSuffix(baseURL, "/"),
		token:   opts.Token,
		http:    rc.StandardClient(),
		metrics: m,
	}
}

// Metrics returns the request counters.
func (c *HTTPSource) Metrics() MetricsSnapshot { return c.metrics.Snapshot() }

func (c *HTTPSource) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *HTTPSource) Page(ctx context.Context, q PageQuery) ([]Entry, error) {
	q = q.Normalize()
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("per_page", strconv.Itoa(q.PerPage))
	if q.Query != "" {
		v.Set("q", q.Query)
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/entries?"+v.Encode(), nil)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, statusError("entries.list", res)
	}
	var payload pageResp
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("entries.list decode: %w", err)
	}
	if payload.Entries == nil {
		payload.Entries = []Entry{}
	}
	return payload.Entries, nil
}

func (c *HTTPSource) Create(ctx context.Context, title string) (Entry, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/entries", createReq{Title: title})
	if err != nil {
		return Entry{}, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return Entry{}, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return Entry{}, statusError("entry.create", res)
	}
	var payload entryResp
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return Entry{}, fmt.Errorf("entry.create decode: %w", err)
	}
	return payload.Entry, nil
}

func (c *HTTPSource) Delete(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/entries/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusNoContent && res.StatusCode != http.StatusOK {
		return statusError("entry.delete", res)
	}
	return nil
}

// statusError maps a non-success response to an error, keeping the catalog
// sentinels for 404 and 405.
func statusError(op string, res *http.Response) error {
	switch res.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case http.StatusMethodNotAllowed:
		return fmt.Errorf("%s: %w", op, ErrReadOnly)
	}
	var payload errorResp
	if err := json.NewDecoder(res.Body).Decode(&payload); err == nil && payload.Error != "" {
		return fmt.Errorf("%s status %s: %s", op, res.Status, payload.Error)
	}
	return fmt.Errorf("%s status %s", op, res.Status)
}
