package database

import (
	"context"

	"github.com/Rana718/roster/internal/database/common"
	"github.com/Rana718/roster/internal/models"
)

type (
	CustomerQuery = common.CustomerQuery
	CustomerPage  = common.Page[models.Customer]
	Dashboard     = common.Dashboard
)

var ErrNotFound = common.ErrNotFound

// Adapter is the record store behind the consoles.
type Adapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	// EnsureSchema runs the provider's DDL; every statement is idempotent.
	EnsureSchema(ctx context.Context, ddl string) error

	// ListCustomers returns one page of customers and the total match count.
	ListCustomers(ctx context.Context, q CustomerQuery) (CustomerPage, error)
	AllCustomers(ctx context.Context) ([]models.Customer, error)
	AllConsultants(ctx context.Context) ([]models.Consultant, error)
	// Dashboard counts customers by status. An empty consultantID covers
	// every customer and adds consultant figures.
	Dashboard(ctx context.Context, consultantID string) (Dashboard, error)

	InsertCustomers(ctx context.Context, rows []models.Customer) error
	InsertConsultants(ctx context.Context, rows []models.Consultant) error
	DeleteCustomer(ctx context.Context, id string) error
}
