package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	driver "github.com/go-sql-driver/mysql"

	"github.com/Rana718/roster/internal/database/common"
)

type Adapter struct {
	common.SQLStore
	dbName string
}

func New() *Adapter {
	return &Adapter{
		SQLStore: common.SQLStore{
			QB:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
			Quote: quote,
		},
	}
}

func quote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

var sslModes = map[string]string{
	"REQUIRED":        "skip-verify",
	"DISABLED":        "false",
	"VERIFY_CA":       "true",
	"VERIFY_IDENTITY": "true",
	"require":         "skip-verify",
	"disable":         "false",
	"verify-ca":       "true",
	"verify-full":     "true",
}

// DSN converts a mysql:// URL into a driver DSN. Anything else is taken to
// be a DSN already and only validated.
func DSN(raw string) (*driver.Config, error) {
	if !strings.HasPrefix(raw, "mysql://") {
		cfg, err := driver.ParseDSN(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid MySQL DSN: %w", err)
		}
		return cfg, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid MySQL URL: %w", err)
	}

	cfg := driver.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.User = u.User.Username()
	cfg.Passwd, _ = u.User.Password()
	cfg.DBName = strings.TrimPrefix(u.Path, "/")

	q := u.Query()
	for _, key := range []string{"ssl-mode", "sslmode"} {
		if mode := q.Get(key); mode != "" {
			if tls, ok := sslModes[mode]; ok {
				cfg.TLSConfig = tls
			}
			q.Del(key)
		}
	}
	if len(q) > 0 {
		cfg.Params = map[string]string{}
		for k := range q {
			cfg.Params[k] = q.Get(k)
		}
	}
	return cfg, nil
}

func (m *Adapter) Connect(ctx context.Context, url string) error {
	cfg, err := DSN(url)
	if err != nil {
		return err
	}
	m.dbName = cfg.DBName

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return fmt.Errorf("failed to open MySQL connection: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(3 * time.Minute)

	m.DB = db
	return nil
}

func (m *Adapter) DatabaseName() string { return m.dbName }
