package seeder

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Rana718/roster/internal/models"
)

type DataGenerator struct {
	rand *rand.Rand
	now  time.Time
}

type place struct {
	city, country, dial string
}

var (
	firstNames = []string{"John", "Jane", "Alice", "Bob", "Charlie", "Diana", "Eve", "Frank", "Grace", "Henry", "Ingrid", "Kenji", "Leila", "Mateo", "Noor", "Olga"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez", "Haugen", "Tanaka", "Haddad", "Novak"}
	domains    = []string{"example.com", "test.com", "demo.com", "mail.com"}
	places     = []place{
		{"Oslo", "Norway", "+47"},
		{"Bergen", "Norway", "+47"},
		{"Stockholm", "Sweden", "+46"},
		{"Berlin", "Germany", "+49"},
		{"Lisbon", "Portugal", "+351"},
		{"Toronto", "Canada", "+1"},
		{"Austin", "United States", "+1"},
		{"Osaka", "Japan", "+81"},
	}
	roles       = []string{"Account Manager", "Tax Advisor", "Onboarding Specialist", "Senior Consultant"}
	departments = []string{"Sales", "Advisory", "Support", "Operations"}
	comments    = []string{
		"",
		"",
		"Prefers email over phone.",
		"Renewal discussed in last call.",
		"Asked for an annual invoice.",
		"Referred by an existing customer.",
	}
)

// NewDataGenerator returns a generator whose output is fixed by seed. A zero
// seed draws one from the clock.
func NewDataGenerator(seed int64, now time.Time) *DataGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if now.IsZero() {
		now = time.Now()
	}
	return &DataGenerator{
		rand: rand.New(rand.NewSource(seed)),
		now:  now,
	}
}

func (g *DataGenerator) pick(list []string) string {
	return list[g.rand.Intn(len(list))]
}

func (g *DataGenerator) generateID() string {
	id, err := uuid.NewRandomFromReader(g.rand)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (g *DataGenerator) generateName() string {
	return g.pick(firstNames) + " " + g.pick(lastNames)
}

func (g *DataGenerator) generateEmail(name string, n int) string {
	local := strings.ToLower(strings.ReplaceAll(name, " ", "."))
	return fmt.Sprintf("%s.%d@%s", local, n, g.pick(domains))
}

func (g *DataGenerator) generatePhone() string {
	return fmt.Sprintf("%03d %02d %03d", g.rand.Intn(1000), g.rand.Intn(100), g.rand.Intn(1000))
}

// generateDate returns a day within a year either side of now.
func (g *DataGenerator) generateDate() string {
	days := g.rand.Intn(730) - 365
	return g.now.AddDate(0, 0, days).Format(time.DateOnly)
}

func (g *DataGenerator) Consultant(n int) models.Consultant {
	name := g.generateName()
	status := models.ConsultantActive
	if g.rand.Intn(5) == 0 {
		status = models.ConsultantInactive
	}
	return models.Consultant{
		ID:         g.generateID(),
		Name:       name,
		Email:      g.generateEmail(name, n),
		Phone:      g.generatePhone(),
		Role:       g.pick(roles),
		Department: g.pick(departments),
		Status:     status,
	}
}

// Customer generates customer n. Internal customers are assigned one of
// consultantIDs; with none available every customer is external.
func (g *DataGenerator) Customer(n int, consultantIDs []string) models.Customer {
	name := g.generateName()
	p := places[g.rand.Intn(len(places))]

	c := models.Customer{
		ID:                 g.generateID(),
		Name:               name,
		Email:              g.generateEmail(name, n),
		Phone:              g.generatePhone(),
		CountryCode:        p.dial,
		City:               p.city,
		Country:            p.country,
		ConsultantType:     models.ConsultantExternal,
		SubscriptionStatus: models.SubscriptionStatuses[g.rand.Intn(len(models.SubscriptionStatuses))],
		Comments:           g.pick(comments),
	}
	if len(consultantIDs) > 0 && g.rand.Intn(3) > 0 {
		c.ConsultantType = models.ConsultantInternal
		c.InternalConsultant = consultantIDs[g.rand.Intn(len(consultantIDs))]
	}
	if c.SubscriptionStatus != models.SubscriptionInactive {
		c.SubscriptionEndDate = g.generateDate()
	}
	return c
}
