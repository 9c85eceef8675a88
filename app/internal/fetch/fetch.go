// Package fetch retrieves the booking page, falling back across an ordered
// list of candidate URLs.
package fetch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Failure means no candidate URL yielded a usable page.
type Failure struct {
	Attempts int
}

func (f *Failure) Error() string {
	return fmt.Sprintf("unable to load the booking page: all %d candidate URLs failed", f.Attempts)
}

// Page is a successfully retrieved page.
type Page struct {
	Body string // decoded page text
	URL  string // resolved URL after redirects
}

// Client fetches the booking page.
type Client struct {
	http *resty.Client
	urls []string
}

// NewClient builds a fetcher over the given candidate URLs with a bounded
// per-request timeout.
func NewClient(urls []string, timeout time.Duration) *Client {
	httpClient := resty.New()
	httpClient.SetHeader("User-Agent", userAgent)
	httpClient.SetTimeout(timeout)

	// 2 requests max per second; keeps the candidate fallback and a short
	// polling interval from hammering the booking site.
	limiter := rate.NewLimiter(2, 2)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	return &Client{http: httpClient, urls: urls}
}

// Fetch tries each candidate URL in order and returns the first page whose
// transport completed with a non-error status. There are no retries beyond
// moving on to the next candidate.
func (c *Client) Fetch(ctx context.Context) (*Page, error) {
	for _, u := range c.urls {
		resp, err := c.http.R().SetContext(ctx).Get(u)
		if err != nil {
			log.Printf("fetch error url=%s err=%v", u, err)
			continue
		}
		code := resp.StatusCode()
		if code < 200 || code > 399 {
			log.Printf("fetch bad status url=%s status=%d", u, code)
			continue
		}

		resolved := u
		if resp.RawResponse != nil && resp.RawResponse.Request != nil {
			resolved = resp.RawResponse.Request.URL.String()
		}
		return &Page{Body: resp.String(), URL: resolved}, nil
	}
	return nil, &Failure{Attempts: len(c.urls)}
}
