package htmlsketch

import (
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"golang.org/x/net/html/charset"
)

// HTTPOptions configures URL input.
type HTTPOptions struct {
	Timeout    time.Duration
	UserAgent  string
	MaxRetries int
	RetryDelay time.Duration
	// Charset overrides the charset declared by the server.
	Charset string
}

// FetchResult is a fetched page. Body is already converted to UTF-8 when
// the server declared a charset or Charset was set; DeclaredCharset is the
// charset parameter of the response Content-Type, kept for logging.
type FetchResult struct {
	Body            []byte
	DeclaredCharset string
}

// Fetcher downloads HTML documents with retries.
type Fetcher struct {
	options *HTTPOptions
}

// NewFetcher creates a new fetcher
func NewFetcher(options *HTTPOptions) *Fetcher {
	return &Fetcher{options: options}
}

// Fetch downloads targetURL. Client errors (4xx) fail immediately, every
// other failure is retried up to MaxRetries times.
func (f *Fetcher) Fetch(targetURL string) (*FetchResult, error) {
	if label := f.options.Charset; label != "" {
		if enc, _ := charset.Lookup(label); enc == nil {
			return nil, NewDecodeError(fmt.Sprintf("unsupported charset %q", label), nil)
		}
	}

	var lastErr error

	for attempt := 0; attempt <= f.options.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(f.options.RetryDelay)
			slog.Debug("retrying request", "attempt", attempt, "url", targetURL)
		}

		result, status, err := f.fetchOnce(targetURL)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if status >= 400 && status < 500 {
			return nil, NewNetworkError(fmt.Sprintf("HTTP %d for %s", status, targetURL), err)
		}
	}

	return nil, NewNetworkError(fmt.Sprintf("request failed after %d retries", f.options.MaxRetries), lastErr)
}

func (f *Fetcher) fetchOnce(targetURL string) (*FetchResult, int, error) {
	c := colly.NewCollector(
		colly.UserAgent(f.options.UserAgent),
		colly.AllowURLRevisit(),
	)
	if f.options.Timeout > 0 {
		c.SetRequestTimeout(f.options.Timeout)
	}

	var (
		result *FetchResult
		status int
		errVal error
	)

	// colly transcodes the body to UTF-8 itself, using this label when set
	// and the Content-Type charset otherwise.
	c.OnRequest(func(r *colly.Request) {
		r.ResponseCharacterEncoding = f.options.Charset
	})
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		result = &FetchResult{
			Body:            r.Body,
			DeclaredCharset: charsetFromHeaders(r.Headers),
		}
		slog.Debug("fetched page", "url", targetURL, "status", r.StatusCode, "charset", result.DeclaredCharset, "bytes", len(r.Body))
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		errVal = err
	})

	if err := c.Visit(targetURL); err != nil && errVal == nil {
		errVal = err
	}
	c.Wait()

	if errVal != nil {
		return nil, status, errVal
	}
	if result == nil {
		return nil, status, fmt.Errorf("no response from %s", targetURL)
	}
	return result, status, nil
}

func charsetFromHeaders(headers *http.Header) string {
	if headers == nil {
		return ""
	}
	contentType := headers.Get("Content-Type")
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}
