package common

import (
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/Rana718/roster/internal/models"
)

var ErrNotFound = errors.New("record not found")

const (
	DefaultLimit = 5
	MaxLimit     = 100
	BatchSize    = 100
)

// DefaultSearchFields are searched when a query names none.
var DefaultSearchFields = []string{"name", "email"}

// Page is one page of records plus the count behind it.
type Page[T any] struct {
	Rows  []T `json:"rows"`
	Total int `json:"total"`
	Page  int `json:"page"`  // 1-based
	Limit int `json:"limit"`
}

func (p Page[T]) PageCount() int {
	if p.Limit <= 0 || p.Total <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// CustomerQuery selects a page of customers.
type CustomerQuery struct {
	Page               int
	Limit              int
	Search             string
	SearchFields       []string
	InternalConsultant string
}

// Normalize applies defaults and drops search fields that are not columns.
func (q CustomerQuery) Normalize() CustomerQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Search = strings.TrimSpace(q.Search)

	fields := make([]string, 0, len(q.SearchFields))
	for _, f := range q.SearchFields {
		f = strings.TrimSpace(f)
		if isCustomerColumn(f) {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		fields = DefaultSearchFields
	}
	q.SearchFields = fields
	return q
}

func (q CustomerQuery) Offset() uint64 {
	return uint64((q.Page - 1) * q.Limit)
}

func isCustomerColumn(name string) bool {
	for _, c := range models.CustomerFields {
		if c == name {
			return true
		}
	}
	return false
}

var CustomerColumns = []string{
	"id", "name", "email", "phone", "country_code", "city", "country",
	"consultant_type", "internal_consultant", "subscription_status",
	"subscription_end_date", "COALESCE(comments, '') AS comments",
}

var customerInsertColumns = models.CustomerFields

var ConsultantColumns = []string{"id", "name", "email", "phone", "role", "department", "status"}

// CustomerFilter builds the WHERE clause for q. q must be normalized.
func CustomerFilter(q CustomerQuery) squirrel.Sqlizer {
	where := squirrel.And{}
	if q.InternalConsultant != "" {
		where = append(where, squirrel.Eq{"internal_consultant": q.InternalConsultant})
	}
	if q.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
		or := squirrel.Or{}
		for _, f := range q.SearchFields {
			or = append(or, squirrel.Expr("LOWER("+f+") LIKE ? ESCAPE '!'", pattern))
		}
		where = append(where, or)
	}
	return where
}

// SelectCustomers returns the page query and the matching count query.
func SelectCustomers(qb squirrel.StatementBuilderType, table string, q CustomerQuery) (squirrel.SelectBuilder, squirrel.SelectBuilder) {
	q = q.Normalize()
	where := CustomerFilter(q)

	page := qb.Select(CustomerColumns...).
		From(table).
		Where(where).
		OrderBy("name", "id").
		Limit(uint64(q.Limit)).
		Offset(q.Offset())
	count := qb.Select("COUNT(*)").From(table).Where(where)
	return page, count
}

func InsertCustomers(qb squirrel.StatementBuilderType, table string, rows []models.Customer) squirrel.InsertBuilder {
	ins := qb.Insert(table).Columns(customerInsertColumns...)
	for _, c := range rows {
		ins = ins.Values(c.ID, c.Name, c.Email, c.Phone, c.CountryCode, c.City, c.Country,
			string(c.ConsultantType), c.InternalConsultant, string(c.SubscriptionStatus),
			c.SubscriptionEndDate, c.Comments)
	}
	return ins
}

func InsertConsultants(qb squirrel.StatementBuilderType, table string, rows []models.Consultant) squirrel.InsertBuilder {
	ins := qb.Insert(table).Columns(ConsultantColumns...)
	for _, c := range rows {
		ins = ins.Values(c.ID, c.Name, c.Email, c.Phone, c.Role, c.Department, string(c.Status))
	}
	return ins
}

// Scanner is satisfied by *sql.Rows, *sql.Row and pgx.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

func ScanCustomer(s Scanner) (models.Customer, error) {
	var c models.Customer
	var kind, status string
	err := s.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CountryCode, &c.City, &c.Country,
		&kind, &c.InternalConsultant, &status, &c.SubscriptionEndDate, &c.Comments)
	c.ConsultantType = models.ConsultantType(kind)
	c.SubscriptionStatus = models.SubscriptionStatus(status)
	return c, err
}

func ScanConsultant(s Scanner) (models.Consultant, error) {
	var c models.Consultant
	var status string
	err := s.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Role, &c.Department, &status)
	c.Status = models.ConsultantStatus(status)
	return c, err
}

// Batches splits n items into [start, end) ranges of at most size.
func Batches(n, size int) [][2]int {
	var out [][2]int
	for start := 0; start < n; start += size {
		out = append(out, [2]int{start, min(start+size, n)})
	}
	return out
}

// Dashboard summarises the customers one consultant owns, or the whole
// database when no consultant is given.
type Dashboard struct {
	TotalCustomers    int            `json:"totalCustomers"`
	ActiveCustomers   int            `json:"activeCustomers"`
	ExpiredCustomers  int            `json:"subscriptionExpiredCustomers"`
	CustomersByStatus map[string]int `json:"customersByStatus"`

	// Only filled for the whole database.
	TotalConsultants      int            `json:"totalConsultants,omitempty"`
	ActiveConsultants     int            `json:"activeConsultants,omitempty"`
	CustomersByConsultant map[string]int `json:"customersByConsultant,omitempty"`
}

// GroupCount is a "key, COUNT(*) ... GROUP BY key" query and where its rows go.
type GroupCount struct {
	Query squirrel.SelectBuilder
	Add   func(d *Dashboard, key string, n int)
}

func countBy(qb squirrel.StatementBuilderType, table, column string, where squirrel.Sqlizer) squirrel.SelectBuilder {
	return qb.Select(column, "COUNT(*)").From(table).Where(where).GroupBy(column).OrderBy(column)
}

// DashboardQueries returns the grouped counts behind a Dashboard. table
// quotes a table name.
func DashboardQueries(qb squirrel.StatementBuilderType, table func(string) string, consultantID string) []GroupCount {
	owned := squirrel.And{}
	if consultantID != "" {
		owned = append(owned, squirrel.Eq{"internal_consultant": consultantID})
	}

	queries := []GroupCount{{
		Query: countBy(qb, table("customers"), "subscription_status", owned),
		Add: func(d *Dashboard, status string, n int) {
			d.TotalCustomers += n
			d.CustomersByStatus[status] += n
			switch models.SubscriptionStatus(status) {
			case models.SubscriptionActive:
				d.ActiveCustomers += n
			case models.SubscriptionExpired:
				d.ExpiredCustomers += n
			}
		},
	}}
	if consultantID != "" {
		return queries
	}

	return append(queries,
		GroupCount{
			Query: countBy(qb, table("consultants"), "status", squirrel.And{}),
			Add: func(d *Dashboard, status string, n int) {
				d.TotalConsultants += n
				if models.ConsultantStatus(status) == models.ConsultantActive {
					d.ActiveConsultants += n
				}
			},
		},
		GroupCount{
			Query: countBy(qb, table("customers"), "internal_consultant",
				squirrel.NotEq{"internal_consultant": ""}),
			Add: func(d *Dashboard, id string, n int) {
				if d.CustomersByConsultant == nil {
					d.CustomersByConsultant = map[string]int{}
				}
				d.CustomersByConsultant[id] += n
			},
		},
	)
}

// NewDashboard returns an empty Dashboard ready for GroupCount.Add.
func NewDashboard() Dashboard {
	return Dashboard{CustomersByStatus: map[string]int{}}
}
