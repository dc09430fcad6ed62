package studio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/roster/internal/database"
	dbcommon "github.com/Rana718/roster/internal/database/common"
	"github.com/Rana718/roster/internal/models"
	"github.com/Rana718/roster/internal/studio/common"
)

type memoryStore struct {
	mu          sync.Mutex
	customers   []models.Customer
	consultants []models.Consultant
	pingErr     error
}

func (m *memoryStore) Ping(context.Context) error { return m.pingErr }

func (m *memoryStore) ListCustomers(_ context.Context, q database.CustomerQuery) (database.CustomerPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q = q.Normalize()
	needle := strings.ToLower(q.Search)
	var matched []models.Customer
	for _, c := range m.customers {
		if q.InternalConsultant != "" && c.InternalConsultant != q.InternalConsultant {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(strings.ToLower(c.Email), needle) {
			continue
		}
		matched = append(matched, c)
	}

	page := database.CustomerPage{Rows: []models.Customer{}, Total: len(matched), Page: q.Page, Limit: q.Limit}
	start := int(q.Offset())
	if start < len(matched) {
		page.Rows = matched[start:min(start+q.Limit, len(matched))]
	}
	return page, nil
}

func (m *memoryStore) AllConsultants(context.Context) ([]models.Consultant, error) {
	return m.consultants, nil
}

func (m *memoryStore) Dashboard(_ context.Context, consultantID string) (database.Dashboard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := dbcommon.NewDashboard()
	for _, c := range m.customers {
		if consultantID != "" && c.InternalConsultant != consultantID {
			continue
		}
		d.TotalCustomers++
		d.CustomersByStatus[string(c.SubscriptionStatus)]++
		switch c.SubscriptionStatus {
		case models.SubscriptionActive:
			d.ActiveCustomers++
		case models.SubscriptionExpired:
			d.ExpiredCustomers++
		}
	}
	if consultantID == "" {
		d.TotalConsultants = len(m.consultants)
		for _, c := range m.consultants {
			if c.Status == models.ConsultantActive {
				d.ActiveConsultants++
			}
		}
	}
	return d, nil
}

func (m *memoryStore) DeleteCustomer(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.customers {
		if c.ID == id {
			m.customers = append(m.customers[:i], m.customers[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

func fixtureStore() *memoryStore {
	s := &memoryStore{}
	for i := range 12 {
		owner := "con-1"
		if i%3 == 0 {
			owner = "con-2"
		}
		s.customers = append(s.customers, models.Customer{
			ID:                 fmt.Sprintf("cus-%02d", i+1),
			Name:               fmt.Sprintf("Customer %02d", i+1),
			Email:              fmt.Sprintf("customer%02d@example.com", i+1),
			ConsultantType:     models.ConsultantInternal,
			InternalConsultant: owner,
			SubscriptionStatus: models.SubscriptionActive,
		})
	}
	for i := range 7 {
		s.consultants = append(s.consultants, models.Consultant{
			ID:     fmt.Sprintf("con-%d", i+1),
			Name:   fmt.Sprintf("Consultant %d", i+1),
			Email:  fmt.Sprintf("consultant%d@example.com", i+1),
			Status: models.ConsultantActive,
		})
	}
	return s
}

func newTestServer(t *testing.T, store *memoryStore) *Server {
	t.Helper()
	return NewServer(store, Options{
		PageSize: 5,
		Now:      func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) },
	})
}

func do(t *testing.T, s *Server, method, target string, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func decodePage(t *testing.T, resp *http.Response) common.TablePage {
	t.Helper()
	var env struct {
		Success bool             `json:"success"`
		Data    common.TablePage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	require.True(t, env.Success)
	return env.Data
}

func TestRootRedirectsToCustomers(t *testing.T) {
	s := newTestServer(t, fixtureStore())
	resp := do(t, s, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/customers?page=1", resp.Header.Get("Location"))
}

func TestCustomersRedirectToCanonicalPage(t *testing.T) {
	s := newTestServer(t, fixtureStore())

	tests := []struct {
		target   string
		location string
	}{
		{"/customers", "/customers?page=1"},
		{"/customers?page=0", "/customers?page=1"},
		{"/customers?page=abc", "/customers?page=1"},
		{"/customers?page=9", "/customers?page=3"},
		{"/customers?page=4&search=customer+1", "/customers?page=1&search=customer+1"},
		{"/customers?page=2&search=nobody", "/customers?page=1&search=nobody"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp := do(t, s, http.MethodGet, tt.target, nil)
			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, tt.location, resp.Header.Get("Location"))
		})
	}
}

func TestCustomersRendersPage(t *testing.T) {
	s := newTestServer(t, fixtureStore())
	resp := do(t, s, http.MethodGet, "/customers?page=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	html := body(t, resp)
	assert.Contains(t, html, "Customer 06")
	assert.Contains(t, html, "Customer 10")
	assert.NotContains(t, html, "Customer 05")
	assert.NotContains(t, html, "Customer 11")
	assert.Contains(t, html, "Showing 5 of 12 entries")
	assert.Contains(t, html, `href="/customers?page=1"`)
	assert.Contains(t, html, `href="/customers?page=3"`)
	// viewers get no delete buttons
	assert.NotContains(t, html, "data-method")
}

func TestCustomersEmptyShowsPlaceholder(t *testing.T) {
	s := newTestServer(t, fixtureStore())
	resp := do(t, s, http.MethodGet, "/customers?page=1&search=nobody", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), "No data found")
}

func TestCustomersAdminSeesActions(t *testing.T) {
	s := newTestServer(t, fixtureStore())
	resp := do(t, s, http.MethodGet, "/customers?page=1", map[string]string{HeaderRole: "admin"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body(t, resp), `data-url="/api/customers/cus-01"`)
}

func TestConsultantsClampPageAndKeepSearch(t *testing.T) {
	s := newTestServer(t, fixtureStore())

	resp := do(t, s, http.MethodGet, "/consultants?page=7&tab=x", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/consultants?page=2&tab=x", resp.Header.Get("Location"))

	resp = do(t, s, http.MethodGet, "/consultants?page=2&search=consultant+7", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/consultants?page=1&search=consultant+7", resp.Header.Get("Location"))

	resp = do(t, s, http.MethodGet, "/consultants?page=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	html := body(t, resp)
	assert.Contains(t, html, "Consultant 6")
	assert.NotContains(t, html, "Consultant 5<")
}

func TestAPICustomersClampsPage(t *testing.T) {
	s := newTestServer(t, fixtureStore())
	resp := do(t, s, http.MethodGet, "/api/customers?page=50&limit=5", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page := decodePage(t, resp)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 3, page.PageCount)
	assert.Len(t, page.Rows, 2)
}

func TestAPIConsultantsUsesQuery(t *testing.T) {
	s := newTestServer(t, fixtureStore())
	resp := do(t, s, http.MethodGet, "/api/consultants?page=2&limit=3", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page := decodePage(t, resp)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 7, page.Total)
	assert.Equal(t, 3, page.PageCount)
	assert.Len(t, page.Rows, 3)
}

func TestConsultantRoleSeesOwnCustomers(t *testing.T) {
	s := newTestServer(t, fixtureStore())

	resp := do(t, s, http.MethodGet, "/api/customers?limit=100&internalConsultant=con-1",
		map[string]string{HeaderRole: "consultant", HeaderConsultant: "con-2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decodePage(t, resp)
	assert.Equal(t, 4, page.Total)

	resp = do(t, s, http.MethodGet, "/api/customers", map[string]string{HeaderRole: "consultant"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body(t, resp), `"success":false`)
}

func TestDeleteCustomerRequiresAdmin(t *testing.T) {
	store := fixtureStore()
	s := newTestServer(t, store)

	resp := do(t, s, http.MethodDelete, "/api/customers/cus-01", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Len(t, store.customers, 12)

	admin := map[string]string{HeaderRole: "admin"}
	resp = do(t, s, http.MethodDelete, "/api/customers/cus-01", admin)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, store.customers, 11)

	resp = do(t, s, http.MethodDelete, "/api/customers/cus-01", admin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(t, fixtureStore())

	resp := do(t, s, http.MethodGet, "/export/customers?format=csv&page=3", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "customers_20240301_120000.csv")

	lines := strings.Split(strings.TrimSpace(body(t, resp)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Name,Email,Phone,City,Country,Consultant,Subscription,Ends", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Customer 11,"))

	resp = do(t, s, http.MethodGet, "/export/customers?format=csv&scope=all", map[string]string{HeaderRole: "admin"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lines = strings.Split(strings.TrimSpace(body(t, resp)), "\n")
	assert.Len(t, lines, 13)
	assert.NotContains(t, lines[0], "Actions")
}

var exportLink = regexp.MustCompile(`href="(/export/[^"]+)"`)

func exportURL(t *testing.T, page string) *url.URL {
	t.Helper()
	m := exportLink.FindStringSubmatch(page)
	require.Len(t, m, 2, "no export link")
	u, err := url.Parse(html.UnescapeString(m[1]))
	require.NoError(t, err)
	return u
}

func TestExportLinkFollowsCurrentPage(t *testing.T) {
	s := newTestServer(t, fixtureStore())

	resp := do(t, s, http.MethodGet, "/customers?page=3&search=customer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	u := exportURL(t, body(t, resp))
	assert.Equal(t, "/export/customers", u.Path)
	assert.Equal(t, "3", u.Query().Get("page"))
	assert.Equal(t, "customer", u.Query().Get("search"))
	assert.Equal(t, "csv", u.Query().Get("format"))

	// following the link exports the rows that were on screen
	resp = do(t, s, http.MethodGet, u.String(), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lines := strings.Split(strings.TrimSpace(body(t, resp)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "Customer 11,"))

	resp = do(t, s, http.MethodGet, "/consultants?page=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	u = exportURL(t, body(t, resp))
	assert.Equal(t, "/export/consultants", u.Path)
	assert.Equal(t, "2", u.Query().Get("page"))
}

func TestExportConsultantsAllMatching(t *testing.T) {
	s := newTestServer(t, fixtureStore())
	resp := do(t, s, http.MethodGet, "/export/consultants?format=json&scope=all&search=consultant+1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Consultant 1", rows[0]["name"])
}

func TestExportRejectsBadRequests(t *testing.T) {
	s := newTestServer(t, fixtureStore())

	resp := do(t, s, http.MethodGet, "/export/invoices?format=csv", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body(t, resp), "unknown table")

	resp = do(t, s, http.MethodGet, "/export/customers?format=sqlite", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, s, http.MethodGet, "/export/customers?format=xml", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDashboardByRole(t *testing.T) {
	store := fixtureStore()
	store.customers[1].SubscriptionStatus = models.SubscriptionExpired
	store.consultants[6].Status = models.ConsultantInactive
	s := newTestServer(t, store)

	decode := func(resp *http.Response) database.Dashboard {
		var env struct {
			Success bool               `json:"success"`
			Data    database.Dashboard `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
		require.True(t, env.Success)
		return env.Data
	}

	resp := do(t, s, http.MethodGet, "/api/dashboard", map[string]string{HeaderRole: "admin"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d := decode(resp)
	assert.Equal(t, 12, d.TotalCustomers)
	assert.Equal(t, 11, d.ActiveCustomers)
	assert.Equal(t, 1, d.ExpiredCustomers)
	assert.Equal(t, 7, d.TotalConsultants)
	assert.Equal(t, 6, d.ActiveConsultants)

	resp = do(t, s, http.MethodGet, "/api/dashboard",
		map[string]string{HeaderRole: "consultant", HeaderConsultant: "con-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	d = decode(resp)
	assert.Equal(t, 8, d.TotalCustomers)
	assert.Equal(t, 1, d.ExpiredCustomers, "cus-02 belongs to con-1")
	assert.Zero(t, d.TotalConsultants)

	resp = do(t, s, http.MethodGet, "/api/dashboard", map[string]string{HeaderRole: "consultant"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = do(t, s, http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	store := fixtureStore()
	s := newTestServer(t, store)

	resp := do(t, s, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	store.pingErr = errors.New("connection refused")
	resp = do(t, s, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body(t, resp), "connection refused")
}

func TestStaticAssets(t *testing.T) {
	s := newTestServer(t, fixtureStore())
	for _, p := range []string{"/static/js/table.js", "/static/css/table.css", "/common/static/common.js"} {
		resp := do(t, s, http.MethodGet, p, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, p)
	}
}
