package studio

import (
	"context"

	"github.com/Rana718/roster/internal/database"
	"github.com/Rana718/roster/internal/database/common"
	"github.com/Rana718/roster/internal/models"
)

// Store is the part of the database adapter the console reads and writes.
type Store interface {
	Ping(ctx context.Context) error
	ListCustomers(ctx context.Context, q database.CustomerQuery) (database.CustomerPage, error)
	AllConsultants(ctx context.Context) ([]models.Consultant, error)
	Dashboard(ctx context.Context, consultantID string) (database.Dashboard, error)
	DeleteCustomer(ctx context.Context, id string) error
}

type Service struct {
	store    Store
	pageSize int
}

func NewService(store Store, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = common.DefaultLimit
	}
	return &Service{store: store, pageSize: pageSize}
}

// ListCustomers returns the page q asks for. A page past the end is
// replaced by the last page, so Page is always the page the rows belong to.
func (s *Service) ListCustomers(ctx context.Context, q database.CustomerQuery) (database.CustomerPage, error) {
	if q.Limit <= 0 {
		q.Limit = s.pageSize
	}
	page, err := s.store.ListCustomers(ctx, q)
	if err != nil {
		return page, err
	}

	pc := page.PageCount()
	switch {
	case pc == 0:
		page.Page = 1
	case page.Page > pc:
		q.Page = pc
		return s.store.ListCustomers(ctx, q)
	}
	return page, nil
}

// MatchingCustomers returns every customer matching q, fetched a page at
// a time.
func (s *Service) MatchingCustomers(ctx context.Context, q database.CustomerQuery) ([]models.Customer, error) {
	q.Limit = common.MaxLimit
	q.Page = 1

	var out []models.Customer
	for {
		page, err := s.store.ListCustomers(ctx, q)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Rows...)
		if len(page.Rows) == 0 || len(out) >= page.Total {
			return out, nil
		}
		q.Page++
	}
}

func (s *Service) Consultants(ctx context.Context) ([]models.Consultant, error) {
	return s.store.AllConsultants(ctx)
}

func (s *Service) Dashboard(ctx context.Context, consultantID string) (database.Dashboard, error) {
	return s.store.Dashboard(ctx, consultantID)
}

func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	return s.store.DeleteCustomer(ctx, id)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) PageSize() int { return s.pageSize }
