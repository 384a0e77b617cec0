// Package voipbin forwards tool invocations to the VoIPBin REST API.
package voipbin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/voipbin/voipbin-mcp/internal/common"
)

// UserAgent is sent on every upstream request.
const UserAgent = "VoIPBin MCP Server"

// maxResponseSize caps the upstream response body. Larger bodies fail with
// ErrResponseTooLarge rather than being truncated.
const maxResponseSize = 50 << 20 // 50MB

var placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

// Request is one logical upstream call.
type Request struct {
	Endpoint   string
	Method     string
	Query      map[string]any
	Body       any
	PathParams map[string]string
}

// Forwarder issues authenticated requests against the VoIPBin API.
// It holds only read-only configuration and is safe for concurrent use.
type Forwarder struct {
	baseURL      string
	apiKey       string
	timeout      time.Duration
	logger       *common.Logger
	newTransport func() http.RoundTripper
}

// Option customises a Forwarder.
type Option func(*Forwarder)

// WithTransport replaces the per-call transport factory.
func WithTransport(fn func() http.RoundTripper) Option {
	return func(f *Forwarder) {
		f.newTransport = fn
	}
}

// NewForwarder creates a Forwarder targeting baseURL and authenticating with apiKey.
// A zero timeout leaves requests bounded only by the caller's context.
func NewForwarder(baseURL, apiKey string, timeout time.Duration, logger *common.Logger, opts ...Option) *Forwarder {
	f := &Forwarder{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		timeout:      timeout,
		logger:       logger,
		newTransport: defaultTransport,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// BaseURL returns the configured upstream base URL.
func (f *Forwarder) BaseURL() string {
	return f.baseURL
}

func defaultTransport() http.RoundTripper {
	return http.DefaultTransport.(*http.Transport).Clone()
}

// ResolveEndpoint substitutes every {name} placeholder in endpoint with the
// path-escaped value from params.
func ResolveEndpoint(endpoint string, params map[string]string) (string, error) {
	var missing []string
	resolved := placeholderPattern.ReplaceAllStringFunc(endpoint, func(token string) string {
		name := token[1 : len(token)-1]
		val, ok := params[name]
		if !ok || val == "" {
			missing = append(missing, name)
			return token
		}
		return url.PathEscape(val)
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingPathParam, strings.Join(missing, ", "))
	}
	return resolved, nil
}

// Placeholders returns the placeholder names in endpoint, in order of appearance.
func Placeholders(endpoint string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(endpoint, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// EncodeQuery flattens a JSON-style mapping into URL query values.
// Slices repeat the key, objects are JSON-encoded and nil values are dropped.
func EncodeQuery(params map[string]any) (url.Values, error) {
	values := url.Values{}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := params[k].(type) {
		case nil:
		case []any:
			for _, item := range v {
				s, err := queryValue(item)
				if err != nil {
					return nil, fmt.Errorf("query parameter %s: %w", k, err)
				}
				values.Add(k, s)
			}
		case []string:
			for _, item := range v {
				values.Add(k, item)
			}
		default:
			s, err := queryValue(v)
			if err != nil {
				return nil, fmt.Errorf("query parameter %s: %w", k, err)
			}
			values.Set(k, s)
		}
	}
	return values, nil
}

func queryValue(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), nil
	case int, int32, int64, uint, uint32, uint64, json.Number:
		return fmt.Sprint(t), nil
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// Forward performs exactly one HTTP request for req and returns the raw
// response body on 2xx. Any other outcome is returned as an error.
func (f *Forwarder) Forward(ctx context.Context, req Request) ([]byte, error) {
	method := strings.ToUpper(req.Method)
	if !allowedMethods[method] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMethod, req.Method)
	}

	f.logger.Debug().
		Str("method", method).
		Str("endpoint", req.Endpoint).
		Str("params", fmt.Sprintf("%v", req.Query)).
		Str("body", fmt.Sprintf("%v", req.Body)).
		Str("path_params", fmt.Sprintf("%v", req.PathParams)).
		Msg("voipbin request")

	endpoint, err := ResolveEndpoint(req.Endpoint, req.PathParams)
	if err != nil {
		f.logger.Error().Str("endpoint", req.Endpoint).Str("error", err.Error()).Msg("voipbin request not sent")
		return nil, err
	}

	fullURL := f.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(req.Query) > 0 {
		values, err := EncodeQuery(req.Query)
		if err != nil {
			return nil, err
		}
		if encoded := values.Encode(); encoded != "" {
			fullURL += "?" + encoded
		}
	}

	var bodyReader io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	f.applyHeaders(httpReq)

	f.logger.Debug().Str("url", fullURL).Msg("voipbin full url")

	// One client per call: nothing is pooled between invocations.
	transport := f.newTransport()
	client := &http.Client{Transport: transport}
	defer closeIdle(transport)

	start := time.Now()
	resp, err := client.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		f.logger.Error().
			Str("method", method).
			Str("url", fullURL).
			Int64("duration_ms", duration.Milliseconds()).
			Str("error", err.Error()).
			Msg("voipbin request failed")
		return nil, fmt.Errorf("voipbin request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > maxResponseSize {
		f.logger.Error().
			Str("method", method).
			Str("url", fullURL).
			Int("status", resp.StatusCode).
			Msg("voipbin response exceeds size limit")
		return nil, fmt.Errorf("%w: more than %d bytes from %s %s", ErrResponseTooLarge, maxResponseSize, method, fullURL)
	}

	f.logger.Debug().
		Int("status", resp.StatusCode).
		Int64("duration_ms", duration.Milliseconds()).
		Int("bytes", len(body)).
		Str("response", string(body)).
		Msg("voipbin response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upErr := &UpstreamError{Method: method, URL: fullURL, StatusCode: resp.StatusCode, Body: body}
		f.logger.Error().
			Str("method", method).
			Str("url", fullURL).
			Int("status", resp.StatusCode).
			Msg("voipbin returned error status")
		return nil, upErr
	}

	return body, nil
}

// Ping reports whether the upstream API answers at all. Any response below
// 500 counts as reachable, since the base URL itself may not be routable.
func (f *Forwarder) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/", nil)
	if err != nil {
		return err
	}
	f.applyHeaders(req)

	transport := f.newTransport()
	defer closeIdle(transport)

	resp, err := (&http.Client{Transport: transport}).Do(req)
	if err != nil {
		return fmt.Errorf("voipbin unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode >= 500 {
		return &UpstreamError{Method: http.MethodGet, URL: req.URL.String(), StatusCode: resp.StatusCode}
	}
	return nil
}

func (f *Forwarder) applyHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+f.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
}

func closeIdle(rt http.RoundTripper) {
	if c, ok := rt.(interface{ CloseIdleConnections() }); ok {
		c.CloseIdleConnections()
	}
}
