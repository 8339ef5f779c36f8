package http

import (
	"net/http"
	"net/url"
	"strconv"
)

// Pagination is limit/offset paging. A missing or non-positive limit falls
// back to DefaultLimit and anything above MaxLimit is clamped.
type Pagination struct {
	DefaultLimit int64
	MaxLimit     int64
}

func (p Pagination) params(r *http.Request) (limit, offset int64) {
	q := r.URL.Query()

	limit = p.DefaultLimit
	if v, err := strconv.ParseInt(q.Get("limit"), 10, 64); err == nil && v > 0 {
		limit = v
	}
	if p.MaxLimit > 0 {
		limit = min(limit, p.MaxLimit)
	}

	if v, err := strconv.ParseInt(q.Get("offset"), 10, 64); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

// links builds the absolute next and previous page URLs, keeping every other
// query parameter of the request.
func (p Pagination) links(r *http.Request, count, limit, offset int64) (next, prev *string) {
	if offset < count-limit {
		u := pageURL(r, limit, offset+limit)
		next = &u
	}
	if offset > 0 {
		u := pageURL(r, limit, max(offset-limit, 0))
		prev = &u
	}
	return next, prev
}

func pageURL(r *http.Request, limit, offset int64) string {
	u := url.URL{
		Scheme: requestScheme(r),
		Host:   r.Host,
		Path:   r.URL.Path,
	}

	q := r.URL.Query()
	q.Set("limit", strconv.FormatInt(limit, 10))
	if offset > 0 {
		q.Set("offset", strconv.FormatInt(offset, 10))
	} else {
		q.Del("offset")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func requestScheme(r *http.Request) string {
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		return "https"
	}
	return "http"
}
