package datatable

import (
	"net/url"
	"strconv"
	"sync"
)

// Query parameters mirrored by client-mode tables.
const (
	QueryParamPage   = "page"
	QueryParamSearch = "search"
)

// LocationStore is the key-value view of a location's query string.
type LocationStore interface {
	Get(key string) string
	Set(key, value string)
	Del(key string)
	Encode() string
}

// MemoryLocation keeps the query in memory. Hosts without a real URL use it.
type MemoryLocation struct {
	mu     sync.Mutex
	values url.Values
}

// NewMemoryLocation parses query; a malformed query starts empty.
func NewMemoryLocation(query string) *MemoryLocation {
	values, err := url.ParseQuery(query)
	if err != nil {
		values = url.Values{}
	}
	return &MemoryLocation{values: values}
}

func (m *MemoryLocation) Get(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values.Get(key)
}

func (m *MemoryLocation) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values.Set(key, value)
}

func (m *MemoryLocation) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values.Del(key)
}

func (m *MemoryLocation) Encode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values.Encode()
}

// URLLocation reads and rewrites the query of a URL in place.
type URLLocation struct {
	u *url.URL
}

func NewURLLocation(u *url.URL) *URLLocation {
	return &URLLocation{u: u}
}

func (l *URLLocation) Get(key string) string { return l.u.Query().Get(key) }

func (l *URLLocation) Set(key, value string) {
	q := l.u.Query()
	q.Set(key, value)
	l.u.RawQuery = q.Encode()
}

func (l *URLLocation) Del(key string) {
	q := l.u.Query()
	q.Del(key)
	l.u.RawQuery = q.Encode()
}

func (l *URLLocation) Encode() string { return l.u.RawQuery }

// URL returns the location as a path plus query, suitable for links.
func (l *URLLocation) URL() string { return l.u.RequestURI() }

// readPage returns the 0-based page held in loc. Missing, non-numeric and
// non-positive values mean the first page.
func readPage(loc LocationStore) int {
	n, err := strconv.Atoi(loc.Get(QueryParamPage))
	if err != nil || n < 1 {
		return 0
	}
	return n - 1
}

func writeState(loc LocationStore, page int, search string) {
	loc.Set(QueryParamPage, strconv.Itoa(page+1))
	if search != "" {
		loc.Set(QueryParamSearch, search)
	} else {
		loc.Del(QueryParamSearch)
	}
}

// PageURL returns path with query rewritten to point at page, keeping every
// other parameter. Hosts use it to build pagination links.
func PageURL(path string, query url.Values, page int) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Set(QueryParamPage, strconv.Itoa(page+1))
	return path + "?" + q.Encode()
}
