package common

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Rana718/roster/internal/models"
)

// SQLStore implements the record operations over database/sql. The SQLite
// and MySQL adapters embed it and differ only in connection handling and
// identifier quoting.
type SQLStore struct {
	DB    *sql.DB
	QB    squirrel.StatementBuilderType
	Quote func(string) string
}

func (s *SQLStore) table(name string) string {
	if s.Quote == nil {
		return name
	}
	return s.Quote(name)
}

func (s *SQLStore) Ping(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("database not connected")
	}
	return s.DB.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

func (s *SQLStore) EnsureSchema(ctx context.Context, ddl string) error {
	for _, stmt := range ParseSQLStatements(ddl) {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) ListCustomers(ctx context.Context, q CustomerQuery) (Page[models.Customer], error) {
	q = q.Normalize()
	pageQ, countQ := SelectCustomers(s.QB, s.table("customers"), q)
	page := Page[models.Customer]{Rows: []models.Customer{}, Page: q.Page, Limit: q.Limit}

	query, args, err := countQ.ToSql()
	if err != nil {
		return page, fmt.Errorf("failed to build count query: %w", err)
	}
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&page.Total); err != nil {
		return page, fmt.Errorf("failed to count customers: %w", err)
	}
	if page.Total == 0 {
		return page, nil
	}

	query, args, err = pageQ.ToSql()
	if err != nil {
		return page, fmt.Errorf("failed to build page query: %w", err)
	}
	page.Rows, err = s.queryCustomers(ctx, query, args...)
	return page, err
}

func (s *SQLStore) AllCustomers(ctx context.Context) ([]models.Customer, error) {
	query, args, err := s.QB.Select(CustomerColumns...).From(s.table("customers")).OrderBy("name", "id").ToSql()
	if err != nil {
		return nil, err
	}
	return s.queryCustomers(ctx, query, args...)
}

func (s *SQLStore) queryCustomers(ctx context.Context, query string, args ...any) ([]models.Customer, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	out := []models.Customer{}
	for rows.Next() {
		c, err := ScanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) AllConsultants(ctx context.Context) ([]models.Consultant, error) {
	query, args, err := s.QB.Select(ConsultantColumns...).From(s.table("consultants")).OrderBy("name", "id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query consultants: %w", err)
	}
	defer rows.Close()

	out := []models.Consultant{}
	for rows.Next() {
		c, err := ScanConsultant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan consultant: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) Dashboard(ctx context.Context, consultantID string) (Dashboard, error) {
	d := NewDashboard()
	for _, g := range DashboardQueries(s.QB, s.table, consultantID) {
		query, args, err := g.Query.ToSql()
		if err != nil {
			return d, fmt.Errorf("failed to build dashboard query: %w", err)
		}
		if err := s.groupCounts(ctx, &d, g, query, args); err != nil {
			return d, err
		}
	}
	return d, nil
}

func (s *SQLStore) groupCounts(ctx context.Context, d *Dashboard, g GroupCount, query string, args []any) error {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("failed to scan count: %w", err)
		}
		g.Add(d, key, n)
	}
	return rows.Err()
}

func (s *SQLStore) InsertCustomers(ctx context.Context, rows []models.Customer) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, b := range Batches(len(rows), BatchSize) {
			query, args, err := InsertCustomers(s.QB, s.table("customers"), rows[b[0]:b[1]]).ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to insert customers: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLStore) InsertConsultants(ctx context.Context, rows []models.Consultant) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, b := range Batches(len(rows), BatchSize) {
			query, args, err := InsertConsultants(s.QB, s.table("consultants"), rows[b[0]:b[1]]).ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to insert consultants: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLStore) DeleteCustomer(ctx context.Context, id string) error {
	query, args, err := s.QB.Delete(s.table("customers")).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("customer %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
