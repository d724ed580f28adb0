// Package apitest is the runtime used by generated REST test suites.
//
// A generated test builds a Request, runs it through a Client, saves the
// Response with a Store and checks it with Expect. Transport failures skip
// the test instead of failing it, so a suite run without a live target
// reports skips rather than errors.
package apitest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

// Environment variables consulted by NewClient.
const (
	EnvBaseURL   = "APITEST_BASE_URL"
	EnvRateLimit = "APITEST_RPS"
)

// ErrUnreachable wraps transport failures: refused connections, DNS errors, timeouts.
var ErrUnreachable = errors.New("target unreachable")

// Options configures a Client.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	UsernameEnv string  // environment variable holding the user name
	PasswordEnv string  // environment variable holding the application password
	EnvFile     string  // optional .env file loaded before reading credentials
	RateLimit   float64 // requests per second, 0 for no limit
}

// Client sends requests to the target service.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient builds a client from opts and the environment.
// APITEST_BASE_URL overrides BaseURL and APITEST_RPS overrides RateLimit.
func NewClient(opts Options) *Client {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "apitest: ignoring %s: %v\n", opts.EnvFile, err)
		}
	}

	baseURL := opts.BaseURL
	if v := os.Getenv(EnvBaseURL); v != "" {
		baseURL = v
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	rps := opts.RateLimit
	if v, err := strconv.ParseFloat(os.Getenv(EnvRateLimit), 64); err == nil {
		rps = v
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	if opts.UsernameEnv != "" {
		c.username = os.Getenv(opts.UsernameEnv)
	}
	if opts.PasswordEnv != "" {
		c.password = os.Getenv(opts.PasswordEnv)
	}
	if rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return c
}

// Request describes one call against the target.
type Request struct {
	Method string
	Path   string // appended to the base URL, e.g. "/wp/v2/categories"
	Query  string // encoded query string without "?"
	Auth   bool   // send basic auth credentials
	Body   string // JSON body
}

// Response is what came back, with the body fully read.
type Response struct {
	Status int
	URL    string
	Header http.Header
	Body   []byte
}

// URL returns the absolute URL for req.
func (c *Client) URL(req Request) string {
	u := c.baseURL + req.Path
	if req.Query != "" {
		u += "?" + req.Query
	}
	return u
}

// Do performs req. Transport failures are returned wrapped in ErrUnreachable.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.URL(req)
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Auth && c.username != "" {
		httpReq.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrUnreachable, err)
	}

	return &Response{
		Status: resp.StatusCode,
		URL:    target,
		Header: resp.Header,
		Body:   data,
	}, nil
}

// Run performs req for a test. An unreachable target skips the test.
func (c *Client) Run(t testing.TB, req Request) *Response {
	t.Helper()
	resp, err := c.Do(context.Background(), req)
	if errors.Is(err, ErrUnreachable) {
		t.Skipf("skipping: %v", err)
	}
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// HasCredentials reports whether a user name was found in the environment.
func (c *Client) HasCredentials() bool {
	return c.username != ""
}
