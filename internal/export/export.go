package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/Rana718/roster/internal/database/sqlite"
	"github.com/Rana718/roster/internal/models"
	"github.com/Rana718/roster/template"
)

type Format string

const (
	JSON   Format = "json"
	YAML   Format = "yaml"
	CSV    Format = "csv"
	SQLite Format = "sqlite"
)

var ErrUnknownFormat = errors.New("unknown export format")

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "csv":
		return CSV, nil
	case "sqlite", "db":
		return SQLite, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
}

// Source is what a full export reads from.
type Source interface {
	AllCustomers(ctx context.Context) ([]models.Customer, error)
	AllConsultants(ctx context.Context) ([]models.Consultant, error)
}

// Dataset is the on-disk shape of exports and fixtures.
type Dataset struct {
	Timestamp   string              `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Version     string              `json:"version,omitempty" yaml:"version,omitempty"`
	Consultants []models.Consultant `json:"consultants" yaml:"consultants"`
	Customers   []models.Customer   `json:"customers" yaml:"customers"`
}

// PerformExport writes every record to a timestamped file (or directory, for
// CSV) under exportPath and returns its path.
func PerformExport(ctx context.Context, src Source, exportPath string, format Format, now time.Time) (string, error) {
	data := Dataset{
		Timestamp: now.Format("2006-01-02 15:04:05"),
		Version:   "1",
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := src.AllCustomers(gctx)
		data.Customers = rows
		return err
	})
	g.Go(func() error {
		rows, err := src.AllConsultants(gctx)
		data.Consultants = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("failed to read records: %w", err)
	}

	if err := os.MkdirAll(exportPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	base := filepath.Join(exportPath, "export_"+now.Format("2006-01-02_15-04-05"))

	switch format {
	case CSV:
		return exportToCSV(data, base+"_csv")
	case SQLite:
		return exportToSQLite(ctx, data, base+".db")
	case YAML:
		return base + ".yaml", writeFile(base+".yaml", data, YAML)
	default:
		return base + ".json", writeFile(base+".json", data, JSON)
	}
}

func writeFile(path string, data Dataset, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if format == YAML {
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func exportToCSV(data Dataset, dirPath string) (string, error) {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create CSV directory: %w", err)
	}

	tables := map[string][][]string{
		"customers":   fieldRows(models.CustomerFields, data.Customers),
		"consultants": fieldRows(models.ConsultantFields, data.Consultants),
	}
	for name, records := range tables {
		f, err := os.Create(filepath.Join(dirPath, name+".csv"))
		if err != nil {
			return "", fmt.Errorf("failed to create CSV file for %s: %w", name, err)
		}
		w := csv.NewWriter(f)
		w.WriteAll(records)
		f.Close()
		if err := w.Error(); err != nil {
			return "", fmt.Errorf("failed to write CSV for %s: %w", name, err)
		}
	}
	return dirPath, nil
}

type fielder interface {
	Field(key string) (any, bool)
}

func fieldRows[T fielder](keys []string, rows []T) [][]string {
	out := make([][]string, 0, len(rows)+1)
	out = append(out, keys)
	for _, row := range rows {
		rec := make([]string, len(keys))
		for i, k := range keys {
			v, _ := row.Field(k)
			rec[i] = fmt.Sprint(v)
		}
		out = append(out, rec)
	}
	return out
}

func exportToSQLite(ctx context.Context, data Dataset, filePath string) (string, error) {
	db := sqlite.New()
	if err := db.Connect(ctx, filePath); err != nil {
		return "", err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx, template.NewProjectTemplate(template.SQLite).GetSchema()); err != nil {
		return "", err
	}
	if err := db.InsertConsultants(ctx, data.Consultants); err != nil {
		return "", err
	}
	if err := db.InsertCustomers(ctx, data.Customers); err != nil {
		return "", err
	}
	return filePath, nil
}
