package seeder

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/roster/internal/models"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type memStore struct {
	customers   []models.Customer
	consultants []models.Consultant
	failOn      string
}

func (m *memStore) InsertCustomers(_ context.Context, rows []models.Customer) error {
	if m.failOn == "customers" {
		return errors.New("disk full")
	}
	if len(m.consultants) == 0 {
		return errors.New("customers inserted before consultants")
	}
	m.customers = append(m.customers, rows...)
	return nil
}

func (m *memStore) InsertConsultants(_ context.Context, rows []models.Consultant) error {
	m.consultants = append(m.consultants, rows...)
	return nil
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := SeedConfig{Customers: 75, Consultants: 4, Seed: 42, Chunk: 10, Now: fixedNow}

	a, err := Generate(context.Background(), cfg)
	require.NoError(t, err)
	b, err := Generate(context.Background(), cfg)
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("same seed produced different data (-a +b):\n%s", diff)
	}

	cfg.Seed = 43
	c, err := Generate(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a.Customers[0].ID, c.Customers[0].ID)
}

func TestGeneratedRecordsAreValid(t *testing.T) {
	res, err := Generate(context.Background(), SeedConfig{Customers: 200, Consultants: 3, Seed: 7, Now: fixedNow})
	require.NoError(t, err)
	require.Len(t, res.Customers, 200)

	owners := map[string]bool{}
	for _, k := range res.Consultants {
		owners[k.ID] = true
	}

	ids := map[string]bool{}
	emails := map[string]bool{}
	for _, c := range res.Customers {
		_, err := uuid.Parse(c.ID)
		require.NoError(t, err)
		assert.False(t, ids[c.ID], "duplicate id %s", c.ID)
		assert.False(t, emails[c.Email], "duplicate email %s", c.Email)
		ids[c.ID], emails[c.Email] = true, true

		assert.True(t, c.ConsultantType.Valid())
		assert.True(t, c.SubscriptionStatus.Valid())
		if c.ConsultantType == models.ConsultantInternal {
			assert.True(t, owners[c.InternalConsultant])
		} else {
			assert.Empty(t, c.InternalConsultant)
		}
		if c.SubscriptionEndDate != "" {
			_, err := time.Parse(time.DateOnly, c.SubscriptionEndDate)
			assert.NoError(t, err)
		}
	}
}

func TestWithoutConsultantsAllExternal(t *testing.T) {
	res, err := Generate(context.Background(), SeedConfig{Customers: 30, Seed: 1, Now: fixedNow})
	require.NoError(t, err)
	for _, c := range res.Customers {
		assert.Equal(t, models.ConsultantExternal, c.ConsultantType)
	}
}

func TestSeedInsertsConsultantsFirst(t *testing.T) {
	store := &memStore{}
	res, err := NewSeeder(store, io.Discard).Seed(context.Background(), SeedConfig{Customers: 12, Consultants: 2, Seed: 9, Now: fixedNow})
	require.NoError(t, err)

	assert.Equal(t, res.Consultants, store.consultants)
	assert.Equal(t, res.Customers, store.customers)
}

func TestSeedReportsStoreError(t *testing.T) {
	store := &memStore{failOn: "customers"}
	_, err := NewSeeder(store, io.Discard).Seed(context.Background(), SeedConfig{Customers: 1, Consultants: 1, Seed: 3})
	assert.ErrorContains(t, err, "disk full")
}

func TestGenerateHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Generate(ctx, SeedConfig{Customers: 10, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}
