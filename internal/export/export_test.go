package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Rana718/roster/internal/datatable"
	"github.com/Rana718/roster/internal/database/sqlite"
	"github.com/Rana718/roster/internal/models"
)

var stamp = time.Date(2025, 5, 17, 9, 30, 0, 0, time.UTC)

type fakeSource struct{}

func (fakeSource) AllCustomers(context.Context) ([]models.Customer, error) {
	return []models.Customer{
		{ID: "c1", Name: "Alice", Email: "alice@example.com", ConsultantType: models.ConsultantInternal, InternalConsultant: "k1", SubscriptionStatus: models.SubscriptionActive},
		{ID: "c2", Name: "Bob, Jr.", Email: "bob@example.com", ConsultantType: models.ConsultantExternal, SubscriptionStatus: models.SubscriptionExpired},
	}, nil
}

func (fakeSource) AllConsultants(context.Context) ([]models.Consultant, error) {
	return []models.Consultant{{ID: "k1", Name: "Kim", Email: "kim@example.com", Status: models.ConsultantActive}}, nil
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, YAML, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, JSON, f)

	_, err = ParseFormat("xlsx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestPerformExportJSONRoundTripsThroughFixtures(t *testing.T) {
	dir := t.TempDir()
	path, err := PerformExport(context.Background(), fakeSource{}, dir, JSON, stamp)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "export_2025-05-17_09-30-00.json"), path)

	ds, err := LoadFixtures(path)
	require.NoError(t, err)
	assert.Equal(t, "2025-05-17 09:30:00", ds.Timestamp)
	require.Len(t, ds.Customers, 2)
	assert.Equal(t, "Bob, Jr.", ds.Customers[1].Name)
	assert.Equal(t, "k1", ds.Consultants[0].ID)
}

func TestPerformExportYAML(t *testing.T) {
	path, err := PerformExport(context.Background(), fakeSource{}, t.TempDir(), YAML, stamp)
	require.NoError(t, err)

	ds, err := LoadFixtures(path)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionExpired, ds.Customers[1].SubscriptionStatus)
}

func TestPerformExportCSV(t *testing.T) {
	dir, err := PerformExport(context.Background(), fakeSource{}, t.TempDir(), CSV, stamp)
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(dir, "customers.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, models.CustomerFields, records[0])
	assert.Equal(t, "Bob, Jr.", records[2][1])
}

func TestPerformExportSQLite(t *testing.T) {
	path, err := PerformExport(context.Background(), fakeSource{}, t.TempDir(), SQLite, stamp)
	require.NoError(t, err)

	db := sqlite.New()
	require.NoError(t, db.Connect(context.Background(), path))
	defer db.Close()
	rows, err := db.AllCustomers(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestLoadFixturesRejectsBadData(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"unknown.json":  `{"customers": [], "consultants": [], "extra": 1}`,
		"status.yaml":   "customers:\n  - id: c1\n    name: A\n    subscription_status: paused\n",
		"noid.yml":      "consultants:\n  - name: Kim\n",
		"fixtures.toml": "",
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		_, err := LoadFixtures(path)
		assert.Error(t, err, name)
	}
}

func viewColumns() []datatable.Column[models.Customer] {
	return []datatable.Column[models.Customer]{
		datatable.Data[models.Customer]("Name", "name"),
		datatable.Data[models.Customer]("Status", "subscription_status"),
		datatable.Actions("", func(models.Customer) any { return "delete" }),
	}
}

func TestWriteViewCSVSkipsActions(t *testing.T) {
	rows, _ := fakeSource{}.AllCustomers(context.Background())
	var buf bytes.Buffer
	require.NoError(t, WriteView(&buf, CSV, viewColumns(), nil, rows))

	assert.Equal(t, "Name,Status\nAlice,active\n\"Bob, Jr.\",expired\n", buf.String())
}

func TestWriteViewJSONAndYAML(t *testing.T) {
	rows, _ := fakeSource{}.AllCustomers(context.Background())

	var buf bytes.Buffer
	require.NoError(t, WriteView(&buf, JSON, viewColumns(), nil, rows[:1]))
	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []map[string]string{{"name": "Alice", "subscription_status": "active"}}, got)

	buf.Reset()
	require.NoError(t, WriteView(&buf, YAML, viewColumns(), nil, rows[:1]))
	got = nil
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Alice", got[0]["name"])

	buf.Reset()
	require.NoError(t, WriteView(&buf, JSON, viewColumns(), nil, []models.Customer{}))
	assert.Equal(t, "[]\n", buf.String())

	assert.ErrorIs(t, WriteView(&buf, SQLite, viewColumns(), nil, rows), ErrUnknownFormat)
}
