package testkit

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"
)

// ShoppingGeneratorConfig configures the shopping data generator
type ShoppingGeneratorConfig struct {
	CustomerCount        int     `json:"customer_count"`
	AvgOrdersPerCustomer float64 `json:"avg_orders_per_customer"`
	ReturnRateBase       float64 `json:"return_rate_base"`
	MissingRate          float64 `json:"missing_rate"` // Chance that an optional numeric cell is left blank
	Seed                 int64   `json:"seed"`
}

// DefaultShoppingConfig returns sensible defaults for shopping data generation
func DefaultShoppingConfig() ShoppingGeneratorConfig {
	return ShoppingGeneratorConfig{
		CustomerCount:        200,
		AvgOrdersPerCustomer: 2.5,
		ReturnRateBase:       0.08,
		MissingRate:          0.1,
		Seed:                 42,
	}
}

// ShoppingHeader is the column layout of generated files
var ShoppingHeader = []string{
	"customer_id",
	"country",
	"signup_channel",
	"loyalty_tier",
	"tenure_days",
	"orders",
	"avg_basket",
	"total_spend",
	"return_rate",
	"risk_score",
	"random_noise",
}

// ShoppingDataGenerator generates one row of e-commerce metrics per customer.
// total_spend tracks orders*avg_basket, loyalty_tier follows tenure, and
// random_noise correlates with nothing.
type ShoppingDataGenerator struct {
	config ShoppingGeneratorConfig
	rng    *rand.Rand
}

// NewShoppingDataGenerator creates a new shopping data generator
func NewShoppingDataGenerator(config ShoppingGeneratorConfig) *ShoppingDataGenerator {
	return &ShoppingDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateRows returns the header followed by one record per customer
func (g *ShoppingDataGenerator) GenerateRows() [][]string {
	rows := make([][]string, 0, g.config.CustomerCount+1)
	rows = append(rows, append([]string(nil), ShoppingHeader...))
	for i := 0; i < g.config.CustomerCount; i++ {
		rows = append(rows, g.customerRow(i))
	}
	return rows
}

// WriteCSV writes the generated rows as comma separated text
func (g *ShoppingDataGenerator) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(g.GenerateRows()); err != nil {
		return fmt.Errorf("failed to write shopping data: %w", err)
	}
	return nil
}

func (g *ShoppingDataGenerator) customerRow(i int) []string {
	tenureDays := float64(g.rng.Intn(720))

	orderCount := int(math.Round(g.config.AvgOrdersPerCustomer + g.rng.NormFloat64()*0.8 + tenureDays/360))
	if orderCount < 1 {
		orderCount = 1
	}
	if orderCount > 10 {
		orderCount = 10
	}

	avgBasket := 20 + g.rng.ExpFloat64()*40
	totalSpend := float64(orderCount)*avgBasket + g.rng.NormFloat64()*5
	returnRate := math.Max(0, g.config.ReturnRateBase+g.rng.NormFloat64()*0.03)

	return []string{
		fmt.Sprintf("customer_%04d", i+1),
		g.randomCountry(),
		g.randomSignupChannel(),
		g.loyaltyTier(tenureDays),
		g.optional(strconv.FormatFloat(tenureDays, 'f', 0, 64)),
		strconv.Itoa(orderCount),
		g.optional(strconv.FormatFloat(avgBasket, 'f', 2, 64)),
		g.optional(strconv.FormatFloat(totalSpend, 'f', 2, 64)),
		g.optional(strconv.FormatFloat(returnRate, 'f', 4, 64)),
		g.optional(strconv.FormatFloat(g.rng.Float64()*0.5, 'f', 3, 64)),
		strconv.FormatFloat(g.rng.Float64()*100, 'f', 3, 64),
	}
}

// optional blanks a cell with probability MissingRate
func (g *ShoppingDataGenerator) optional(cell string) string {
	if g.rng.Float64() < g.config.MissingRate {
		return ""
	}
	return cell
}

// loyaltyTier follows tenure; new customers have no tier
func (g *ShoppingDataGenerator) loyaltyTier(tenureDays float64) string {
	switch {
	case tenureDays > 180:
		return "gold"
	case tenureDays > 90:
		return "silver"
	case tenureDays > 30:
		return "bronze"
	default:
		return ""
	}
}

func (g *ShoppingDataGenerator) randomCountry() string {
	countries := []string{"US", "CA", "UK", "DE", "FR", "AU", "JP"}
	return countries[g.rng.Intn(len(countries))]
}

func (g *ShoppingDataGenerator) randomSignupChannel() string {
	channels := []string{"organic", "paid_search", "social", "email", "referral"}
	return channels[g.rng.Intn(len(channels))]
}
