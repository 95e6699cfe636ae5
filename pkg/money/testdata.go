package money

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gocarina/gocsv"
)

// TestDataGenerator generates realistic statement fixtures using gofakeit.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

// NewTestDataGenerator creates a new test data generator with a random seed.
func NewTestDataGenerator() *TestDataGenerator {
	return &TestDataGenerator{
		faker: gofakeit.New(0),
	}
}

// NewTestDataGeneratorWithSeed creates a generator with a specific seed for reproducibility.
func NewTestDataGeneratorWithSeed(seed int64) *TestDataGenerator {
	return &TestDataGenerator{
		faker: gofakeit.New(seed),
	}
}

// TestTransaction is a generated statement row. Amount is negative for expenses.
type TestTransaction struct {
	Date        time.Time
	Description string
	Amount      *Money
}

var (
	fixtureStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	fixtureEnd   = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
)

// Transaction generates a single random transaction, three expenses for
// every income on average.
func (g *TestDataGenerator) Transaction(currency string) TestTransaction {
	date := g.faker.DateRange(fixtureStart, fixtureEnd)

	if g.faker.Number(1, 4) == 1 {
		return TestTransaction{
			Date:        date,
			Description: g.IncomeDescription(),
			Amount:      g.RandomAmount(currency, 50000, 500000),
		}
	}

	return TestTransaction{
		Date:        date,
		Description: g.Merchant(),
		Amount:      New(-g.RandomAmount(currency, 100, 50000).Amount(), currency),
	}
}

// Transactions generates multiple random transactions.
func (g *TestDataGenerator) Transactions(currency string, count int) []TestTransaction {
	txs := make([]TestTransaction, count)
	for i := 0; i < count; i++ {
		txs[i] = g.Transaction(currency)
	}
	return txs
}

// RandomAmount generates a random positive Money value within a cent range.
func (g *TestDataGenerator) RandomAmount(currency string, minCents, maxCents int64) *Money {
	if minCents > maxCents {
		minCents, maxCents = maxCents, minCents
	}
	cents := g.faker.Int64() % (maxCents - minCents + 1)
	if cents < 0 {
		cents = -cents
	}
	return New(minCents+cents, currency)
}

var merchants = []string{
	"AMAZON MKTPLACE PMTS", "WALMART SUPERCENTER", "TARGET", "COSTCO WHSE", "STARBUCKS STORE",
	"MCDONALD'S", "UBER TRIP", "LYFT RIDE", "NETFLIX.COM", "SPOTIFY USA",
	"WHOLE FOODS MARKET", "TRADER JOE'S", "CVS PHARMACY", "WALGREENS", "SHELL OIL",
	"CHEVRON", "DELTA AIR LINES", "MARRIOTT HOTELS", "HOME DEPOT", "BEST BUY",
}

var incomeDescriptions = []string{
	"ACME CORP PAYROLL",
	"DIRECT DEPOSIT SALARY",
	"CLIENT INVOICE PAYMENT",
	"DIVIDEND PAYMENT",
	"INTEREST PAID",
	"TAX REFUND",
}

// Merchant returns a random card-statement merchant description.
func (g *TestDataGenerator) Merchant() string {
	return merchants[g.faker.Number(0, len(merchants)-1)]
}

// IncomeDescription returns a random income description.
func (g *TestDataGenerator) IncomeDescription() string {
	return incomeDescriptions[g.faker.Number(0, len(incomeDescriptions)-1)]
}

type genericRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
}

type discoverRow struct {
	TransDate   string `csv:"Trans. Date"`
	PostDate    string `csv:"Post Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Category    string `csv:"Category"`
}

// StatementCSV renders transactions as a "Date,Description,Amount" export
// with MM/DD/YYYY dates and negative expenses.
func StatementCSV(txs []TestTransaction) ([]byte, error) {
	rows := make([]genericRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, genericRow{
			Date:        tx.Date.Format("01/02/2006"),
			Description: tx.Description,
			Amount:      tx.Amount.String(),
		})
	}
	return gocsv.MarshalBytes(rows)
}

// DiscoverCSV renders transactions in the Discover card layout, where
// purchases are positive and credits negative.
func DiscoverCSV(txs []TestTransaction) ([]byte, error) {
	rows := make([]discoverRow, 0, len(txs))
	for _, tx := range txs {
		category := "Merchandise"
		if !tx.Amount.IsNegative() {
			category = "Payments and Credits"
		}
		rows = append(rows, discoverRow{
			TransDate:   tx.Date.Format("01/02/2006"),
			PostDate:    tx.Date.AddDate(0, 0, 1).Format("01/02/2006"),
			Description: tx.Description,
			Amount:      tx.Amount.ToDecimal().Neg().StringFixed(2),
			Category:    category,
		})
	}
	return gocsv.MarshalBytes(rows)
}
