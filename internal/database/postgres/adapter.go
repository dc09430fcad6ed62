package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/Rana718/roster/internal/database/common"
	"github.com/Rana718/roster/internal/models"
)

type Adapter struct {
	pool *pgxpool.Pool
	qb   squirrel.StatementBuilderType
}

func New() *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func table(name string) string { return pq.QuoteIdentifier(name) }

func (p *Adapter) Connect(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}

	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	config.MaxConns = 4
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	p.pool = pool
	return nil
}

func (p *Adapter) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Adapter) Ping(ctx context.Context) error {
	if p.pool == nil {
		return errors.New("database not connected")
	}
	return p.pool.Ping(ctx)
}

func (p *Adapter) EnsureSchema(ctx context.Context, ddl string) error {
	for _, stmt := range common.ParseSQLStatements(ddl) {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (p *Adapter) ListCustomers(ctx context.Context, q common.CustomerQuery) (common.Page[models.Customer], error) {
	q = q.Normalize()
	pageQ, countQ := common.SelectCustomers(p.qb, table("customers"), q)
	page := common.Page[models.Customer]{Rows: []models.Customer{}, Page: q.Page, Limit: q.Limit}

	query, args, err := countQ.ToSql()
	if err != nil {
		return page, fmt.Errorf("failed to build count query: %w", err)
	}
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&page.Total); err != nil {
		return page, fmt.Errorf("failed to count customers: %w", err)
	}
	if page.Total == 0 {
		return page, nil
	}

	query, args, err = pageQ.ToSql()
	if err != nil {
		return page, fmt.Errorf("failed to build page query: %w", err)
	}
	page.Rows, err = p.queryCustomers(ctx, query, args...)
	return page, err
}

func (p *Adapter) AllCustomers(ctx context.Context) ([]models.Customer, error) {
	query, args, err := p.qb.Select(common.CustomerColumns...).From(table("customers")).OrderBy("name", "id").ToSql()
	if err != nil {
		return nil, err
	}
	return p.queryCustomers(ctx, query, args...)
}

func (p *Adapter) queryCustomers(ctx context.Context, query string, args ...any) ([]models.Customer, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	out := []models.Customer{}
	for rows.Next() {
		c, err := common.ScanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Adapter) AllConsultants(ctx context.Context) ([]models.Consultant, error) {
	query, args, err := p.qb.Select(common.ConsultantColumns...).From(table("consultants")).OrderBy("name", "id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query consultants: %w", err)
	}
	defer rows.Close()

	out := []models.Consultant{}
	for rows.Next() {
		c, err := common.ScanConsultant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan consultant: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Adapter) InsertCustomers(ctx context.Context, rows []models.Customer) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		for _, b := range common.Batches(len(rows), common.BatchSize) {
			query, args, err := common.InsertCustomers(p.qb, table("customers"), rows[b[0]:b[1]]).ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to insert customers: %w", err)
			}
		}
		return nil
	})
}

func (p *Adapter) InsertConsultants(ctx context.Context, rows []models.Consultant) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		for _, b := range common.Batches(len(rows), common.BatchSize) {
			query, args, err := common.InsertConsultants(p.qb, table("consultants"), rows[b[0]:b[1]]).ToSql()
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to insert consultants: %w", err)
			}
		}
		return nil
	})
}

func (p *Adapter) DeleteCustomer(ctx context.Context, id string) error {
	query, args, err := p.qb.Delete(table("customers")).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func (p *Adapter) Dashboard(ctx context.Context, consultantID string) (common.Dashboard, error) {
	d := common.NewDashboard()
	for _, g := range common.DashboardQueries(p.qb, table, consultantID) {
		query, args, err := g.Query.ToSql()
		if err != nil {
			return d, fmt.Errorf("failed to build dashboard query: %w", err)
		}
		rows, err := p.pool.Query(ctx, query, args...)
		if err != nil {
			return d, fmt.Errorf("failed to count records: %w", err)
		}
		var key string
		var n int
		_, err = pgx.ForEachRow(rows, []any{&key, &n}, func() error {
			g.Add(&d, key, n)
			return nil
		})
		if err != nil {
			return d, fmt.Errorf("failed to scan count: %w", err)
		}
	}
	return d, nil
}
