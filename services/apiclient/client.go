package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cokothon/models"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	tracerName      = "cokothon/apiclient"
	maxResponseSize = 4 << 20
)

// Client is a thin wrapper around the cokothon REST backend. Endpoint
// functions are grouped by resource.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	tp      trace.TracerProvider
	tracer  trace.Tracer
	logger  *zap.Logger

	Auth       *AuthAPI
	Boards     *BoardAPI
	Categories *CategoryAPI
	Surveys    *SurveyAPI
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTracerProvider sets the provider used to trace backend calls.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tp = tp
		c.tracer = tp.Tracer(tracerName)
	}
}

// WithCategoryCache serves the category list through cache.
func WithCategoryCache(cache CategoryCache) Option {
	return func(c *Client) { c.Categories.cache = cache }
}

// New builds a client for the backend at baseURL. Unless WithHTTPClient is
// given, requests go through an otelhttp transport so trace context reaches
// the backend.
func New(baseURL string, timeout time.Duration, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		tp:      otel.GetTracerProvider(),
		logger:  logger,
	}
	c.tracer = c.tp.Tracer(tracerName)
	c.Auth = &AuthAPI{c: c}
	c.Boards = &BoardAPI{c: c}
	c.Categories = &CategoryAPI{c: c}
	c.Surveys = &SurveyAPI{c: c}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{
			Timeout:   c.timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport, otelhttp.WithTracerProvider(c.tp)),
		}
	}
	return c
}

// call describes one backend request. route is the path template used for
// span names; path is the concrete path.
type call struct {
	method string
	route  string
	path   string
	query  url.Values
	body   any
}

// Ping reports whether the backend answers at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/status", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("backend answered %d", resp.StatusCode)
	}
	return nil
}

func do[T any](ctx context.Context, c *Client, creds *Credentials, in call) (env models.Envelope[T], err error) {
	ctx, span := c.tracer.Start(ctx, "apiclient "+in.method+" "+in.route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", in.method),
			attribute.String("http.route", in.route),
		),
	)
	start := time.Now()
	status := 0
	defer func() {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		c.logger.Debug("backend call",
			zap.String("method", in.method),
			zap.String("route", in.route),
			zap.Int("status", status),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
	}()

	target := c.baseURL + in.path
	if len(in.query) > 0 {
		target += "?" + in.query.Encode()
	}

	var body io.Reader
	if in.body != nil {
		b, mErr := sonic.ConfigStd.Marshal(in.body)
		if mErr != nil {
			return env, fmt.Errorf("encode %s %s: %w", in.method, in.route, mErr)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, in.method, target, body)
	if err != nil {
		return env, fmt.Errorf("build %s %s: %w", in.method, in.route, err)
	}
	req.Header.Set("Accept", "application/json")
	if in.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	creds.apply(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return env, &APIError{Err: err}
	}
	defer resp.Body.Close()
	status = resp.StatusCode
	creds.absorb(resp)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return env, &APIError{Status: status, Err: err}
	}

	var decodeErr error
	if len(bytes.TrimSpace(raw)) > 0 {
		decodeErr = sonic.ConfigStd.Unmarshal(raw, &env)
	}

	if status >= http.StatusBadRequest {
		msg := ""
		if decodeErr == nil {
			msg = env.Message
		} else {
			// data may not match T on error bodies; the message still can.
			var fallback models.Envelope[any]
			if sonic.ConfigStd.Unmarshal(raw, &fallback) == nil {
				msg = fallback.Message
			}
		}
		return env, &APIError{Status: status, Message: msg}
	}
	if decodeErr != nil {
		return env, &APIError{Status: status, Err: fmt.Errorf("decode %s %s: %w", in.method, in.route, decodeErr)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return env, &APIError{Status: status, Err: fmt.Errorf("empty body from %s %s", in.method, in.route)}
	}
	if !env.Success {
		return env, &APIError{Status: status, Message: env.Message}
	}
	return env, nil
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("size", fmt.Sprint(size))
	return q
}
