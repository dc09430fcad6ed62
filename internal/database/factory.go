package database

import (
	"context"
	"fmt"

	"github.com/Rana718/roster/internal/database/mysql"
	"github.com/Rana718/roster/internal/database/postgres"
	"github.com/Rana718/roster/internal/database/sqlite"
	"github.com/Rana718/roster/template"
)

var ErrUnsupportedProvider = template.ErrUnsupportedProvider

func NewAdapter(provider string) (Adapter, error) {
	dbType, ok := template.ParseDatabaseType(provider)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
	switch dbType {
	case template.PostgreSQL:
		return postgres.New(), nil
	case template.MySQL:
		return mysql.New(), nil
	default:
		return sqlite.New(), nil
	}
}

// Open connects to url and makes sure the record tables exist.
func Open(ctx context.Context, provider, url string) (Adapter, error) {
	adapter, err := NewAdapter(provider)
	if err != nil {
		return nil, err
	}
	if err := adapter.Connect(ctx, url); err != nil {
		return nil, err
	}
	if err := adapter.Ping(ctx); err != nil {
		adapter.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	dbType, _ := template.ParseDatabaseType(provider)
	if err := adapter.EnsureSchema(ctx, template.NewProjectTemplate(dbType).GetSchema()); err != nil {
		adapter.Close()
		return nil, err
	}
	return adapter, nil
}
