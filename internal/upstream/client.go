package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/yungbote/neurobridge-dashboard/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
)

type Domain string

const (
	DomainEnrollment Domain = "enrollment"
	DomainCourse     Domain = "course"
	DomainPayment    Domain = "payment"
	DomainIdentity   Domain = "identity"
)

const (
	maxBodyBytes      = 8 << 20
	maxErrorBodyBytes = 4 << 10
)

// Client is the transport to one upstream domain. Implementations never return a Go
// error for call failures; they are reported inside the Result.
type Client interface {
	Domain() Domain
	Get(ctx context.Context, path string) Result[json.RawMessage]
	Post(ctx context.Context, path string, body any) Result[json.RawMessage]
	Put(ctx context.Context, path string, body any) Result[json.RawMessage]
	Delete(ctx context.Context, path string) Result[json.RawMessage]
}

// Endpoint configures one upstream domain.
type Endpoint struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

type HTTPClient struct {
	domain  Domain
	baseURL string
	timeout time.Duration

	httpClient *http.Client
	log        *logger.Logger
}

func NewHTTPClient(domain Domain, ep Endpoint, log *logger.Logger) (*HTTPClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(ep.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("upstream %s: base_url required", domain)
	}
	if log == nil {
		log = logger.Nop()
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	timeout := ep.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPClient{
		domain:     domain,
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{Transport: otelhttp.NewTransport(tr)},
		log:        log.With("component", "UpstreamClient", "domain", string(domain)),
	}, nil
}

// NewWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewWithHTTPClient(domain Domain, ep Endpoint, httpClient *http.Client, log *logger.Logger) (*HTTPClient, error) {
	c, err := NewHTTPClient(domain, ep, log)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c, nil
}

func (c *HTTPClient) Domain() Domain { return c.domain }

func (c *HTTPClient) Get(ctx context.Context, path string) Result[json.RawMessage] {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *HTTPClient) Post(ctx context.Context, path string, body any) Result[json.RawMessage] {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *HTTPClient) Put(ctx context.Context, path string, body any) Result[json.RawMessage] {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *HTTPClient) Delete(ctx context.Context, path string) Result[json.RawMessage] {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (res Result[json.RawMessage]) {
	ctx = ctxutil.Default(ctx)
	fail := func(kind FailureKind, status int, errBody string, err error) Result[json.RawMessage] {
		return Fail[json.RawMessage](&CallFailure{
			Domain:     c.domain,
			Method:     method,
			Path:       path,
			Kind:       kind,
			StatusCode: status,
			Body:       errBody,
			Err:        err,
		})
	}
	defer func() {
		if rec := recover(); rec != nil {
			res = fail(KindPanic, 0, "", fmt.Errorf("panic: %v", rec))
		}
	}()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fail(KindEncode, 0, "", err)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, method, c.baseURL+path, &buf)
	if err != nil {
		return fail(KindEncode, 0, "", err)
	}
	c.setHeaders(ctx, req, body != nil)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		f := AsFailure(err)
		c.log.Debug("upstream call failed", "method", method, "path", path, "kind", string(f.Kind), "error", err)
		return fail(f.Kind, 0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.log.Debug("upstream non-2xx", "method", method, "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
		return fail(KindStatus, resp.StatusCode, strings.TrimSpace(string(raw)), nil)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		kind := AsFailure(err).Kind
		if errors.Is(err, io.ErrUnexpectedEOF) {
			kind = KindNetwork
		}
		return fail(kind, resp.StatusCode, "", err)
	}
	if len(bytes.TrimSpace(raw)) > 0 && !json.Valid(raw) {
		return fail(KindDecode, resp.StatusCode, "", errors.New("response body is not valid JSON"))
	}
	return Success(json.RawMessage(raw))
}

func (c *HTTPClient) setHeaders(ctx context.Context, req *http.Request, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	if rd := ctxutil.GetRequestData(ctx); rd != nil && rd.Token != "" {
		req.Header.Set("Authorization", "Bearer "+rd.Token)
	}
	if id := ctxutil.RequestID(ctx); id != "" {
		req.Header.Set("X-Request-Id", id)
	}
}
