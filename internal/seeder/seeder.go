package seeder

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Rana718/roster/internal/logger"
	"github.com/Rana718/roster/internal/models"
)

// Store is the part of the database adapter the seeder writes through.
type Store interface {
	InsertCustomers(ctx context.Context, rows []models.Customer) error
	InsertConsultants(ctx context.Context, rows []models.Consultant) error
}

type SeedConfig struct {
	Customers   int
	Consultants int
	// Seed fixes the generated data; zero picks one from the clock.
	Seed int64
	// Chunk is how many customers one generator produces.
	Chunk int
	Now   time.Time
}

type Result struct {
	Consultants []models.Consultant
	Customers   []models.Customer
}

type Seeder struct {
	store Store
	out   io.Writer
}

func NewSeeder(store Store, out io.Writer) *Seeder {
	if out == nil {
		out = color.Output
	}
	return &Seeder{store: store, out: out}
}

// Generate builds the records without touching the store. Customer chunks
// are produced concurrently, each from its own generator, so a fixed seed
// gives the same data regardless of scheduling.
func Generate(ctx context.Context, cfg SeedConfig) (Result, error) {
	if cfg.Chunk <= 0 {
		cfg.Chunk = 250
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}

	base := NewDataGenerator(cfg.Seed, cfg.Now)
	res := Result{
		Consultants: make([]models.Consultant, cfg.Consultants),
		Customers:   make([]models.Customer, cfg.Customers),
	}
	ids := make([]string, cfg.Consultants)
	for i := range res.Consultants {
		res.Consultants[i] = base.Consultant(i + 1)
		ids[i] = res.Consultants[i].ID
	}

	g, ctx := errgroup.WithContext(ctx)
	for chunk, start := 0, 0; start < cfg.Customers; chunk, start = chunk+1, start+cfg.Chunk {
		gen := NewDataGenerator(cfg.Seed+int64(chunk)+1, cfg.Now)
		end := min(start+cfg.Chunk, cfg.Customers)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				res.Customers[i] = gen.Customer(i+1, ids)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return res, nil
}

// Seed generates and inserts records. Consultants go in first since
// customers refer to them.
func (s *Seeder) Seed(ctx context.Context, cfg SeedConfig) (Result, error) {
	color.New(color.FgCyan).Fprintln(s.out, "🌱 Starting database seeding...")
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	res, err := Generate(ctx, cfg)
	if err != nil {
		return Result{}, fmt.Errorf("failed to generate records: %w", err)
	}

	if len(res.Consultants) > 0 {
		if err := s.store.InsertConsultants(ctx, res.Consultants); err != nil {
			return Result{}, fmt.Errorf("failed to seed consultants: %w", err)
		}
		color.New(color.FgGreen).Fprintf(s.out, "✅ consultants: %d rows\n", len(res.Consultants))
	}
	if len(res.Customers) > 0 {
		if err := s.store.InsertCustomers(ctx, res.Customers); err != nil {
			return Result{}, fmt.Errorf("failed to seed customers: %w", err)
		}
		color.New(color.FgGreen).Fprintf(s.out, "✅ customers: %d rows\n", len(res.Customers))
	}

	logger.L().Info("seeded database",
		zap.Int("consultants", len(res.Consultants)),
		zap.Int("customers", len(res.Customers)),
		zap.Int64("seed", cfg.Seed))
	return res, nil
}
