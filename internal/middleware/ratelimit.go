package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimit limits requests per client IP.
func RateLimit(requestLimit int, windowLength time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestLimit,
		windowLength,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(limitHandler(windowLength)),
	)
}

// maxSitePeek bounds how much of a request body is buffered to find its
// site id.
const maxSitePeek = 1 << 20

// SiteRateLimit limits requests per widget site and client IP. The site id
// is taken from the JSON body's site_id, then from the site_id query
// parameter. The body is restored for the next handler.
func SiteRateLimit(requestLimit int, windowLength time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestLimit,
		windowLength,
		httprate.WithKeyFuncs(httprate.KeyByIP, func(r *http.Request) (string, error) {
			if site := siteFromBody(r); site != "" {
				return "site:" + site, nil
			}
			if site := r.URL.Query().Get("site_id"); site != "" {
				return "site:" + site, nil
			}
			return "site:-", nil
		}),
		httprate.WithLimitHandler(limitHandler(windowLength)),
	)
}

// siteFromBody reads up to maxSitePeek bytes and puts them back in front of
// the unread remainder.
func siteFromBody(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}
	head, err := io.ReadAll(io.LimitReader(r.Body, maxSitePeek))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
	if err != nil {
		return ""
	}

	var payload struct {
		SiteID string `json:"site_id"`
	}
	if json.Unmarshal(head, &payload) != nil {
		return ""
	}
	return payload.SiteID
}

func limitHandler(window time.Duration) http.HandlerFunc {
	retry := strconv.Itoa(int(window.Seconds()))
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", retry)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limit exceeded","retry_after":` + retry + `}`))
	}
}
