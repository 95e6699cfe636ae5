package categorization

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTag(t *testing.T) {
	tests := []struct {
		name     string
		merchant string
		desc     string
		amount   string
		want     string
	}{
		{"coffee", "Starbucks", "STARBUCKS STORE 1234", "-5.75", CategoryFoodAndDrink},
		{"marketplace", "Amazon Mktplace Pmts", "AMAZON MKTPLACE PMTS", "-42.10", CategoryShopping},
		{"fuel", "Shell Oil 5744", "SHELL OIL 57444", "-38.20", CategoryTransportation},
		{"food delivery beats rides", "Uber Eats", "UBER EATS ORDER", "-23.00", CategoryFoodAndDrink},
		{"streaming", "Netflix.com", "NETFLIX.COM", "-15.49", CategoryEntertainment},
		{"utility", "Comcast Cable", "COMCAST CABLE", "-89.99", CategoryBillsUtilities},
		{"pharmacy", "CVS Pharmacy", "CVS/PHARMACY #0423", "-12.00", CategoryHealth},
		{"hotel", "Marriott Downtown", "MARRIOTT DOWNTOWN", "-310.00", CategoryTravel},
		{"outgoing transfer", "Zelle", "ZELLE TO JANE", "-100.00", CategoryTransfer},
		{"unknown expense", "Zqx Holdings", "ZQX HOLDINGS", "-1.00", CategoryOther},
		{"zero is not income", "Zqx Holdings", "ZQX HOLDINGS", "0", CategoryOther},
		{"payroll", "Acme Corp Payroll", "ACME CORP PAYROLL", "2500.00", CategoryIncome},
		{"incoming zelle", "Zelle", "ZELLE FROM JOHN", "50.00", CategoryTransfer},
		{"refund defaults to income", "Target", "TARGET REFUND", "20.00", CategoryIncome},
		{"missing merchant uses description", "", "NETFLIX.COM", "-15.49", CategoryEntertainment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tag(Input{
				MerchantName: tt.merchant,
				Name:         tt.desc,
				Amount:       decimal.RequireFromString(tt.amount),
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		category string
		merchant string
		amount   string
		want     Classification
	}{
		{"income is flex", CategoryIncome, "Acme Corp Payroll", "2500.00", Flex},
		{"zero is flex", CategoryBillsUtilities, "Comcast", "0", Flex},
		{"essential override", CategoryOther, "Oak Street Landlord LLC", "-1500.00", Essential},
		{"flex override beats essential category", CategoryBillsUtilities, "Netflix.com", "-15.49", Flex},
		{"grocery chain outweighs dining category", CategoryFoodAndDrink, "Kroger 445", "-64.10", Essential},
		{"coffee is flex", CategoryFoodAndDrink, "Starbucks", "-5.75", Flex},
		{"utility bill", CategoryBillsUtilities, "Comcast Cable", "-89.99", Essential},
		{"essential category alone", CategoryHealth, "Dr Patel Family", "-120.00", Essential},
		{"misspelled pharmacy chain", CategoryOther, "Walgreen 0812", "-9.99", Essential},
		{"no signal defaults to flex", CategoryOther, "Zqx Holdings", "-1.00", Flex},
		{"missing category", "", "Zqx Holdings", "-1.00", Flex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(Input{
				Category:     tt.category,
				MerchantName: tt.merchant,
				Amount:       decimal.RequireFromString(tt.amount),
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScore(t *testing.T) {
	s := Score(Input{Category: CategoryBillsUtilities, MerchantName: "Comcast", Amount: decimal.NewFromInt(-90)})
	assert.Equal(t, essentialCategoryWeight+essentialMerchantTableWeight, s.Essential)
	assert.Equal(t, 0, s.Flex)

	s = Score(Input{Category: CategoryFoodAndDrink, MerchantName: "Starbucks", Amount: decimal.NewFromInt(-5)})
	assert.Equal(t, 0, s.Essential)
	assert.Equal(t, flexCategoryWeight+flexMerchantWeight, s.Flex)

	// Fuzzy hit on the merchant table.
	s = Score(Input{MerchantName: "Walgreen", Amount: decimal.NewFromInt(-5)})
	assert.Equal(t, essentialMerchantTableWeight, s.Essential)
}

func TestTagAndClassify_Total(t *testing.T) {
	faker := gofakeit.New(42)
	valid := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		valid[c] = true
	}

	for i := 0; i < 500; i++ {
		in := Input{
			MerchantName: faker.Company(),
			Name:         faker.Sentence(4),
			Amount:       decimal.NewFromFloat(faker.Float64Range(-5000, 5000)).Round(2),
		}
		if i%7 == 0 {
			in.MerchantName = ""
		}
		if i%11 == 0 {
			in.Name = faker.LetterN(uint(faker.Number(0, 30)))
		}

		category := Tag(in)
		assert.True(t, valid[category], "Tag(%+v) = %q", in, category)

		in.Category = category
		class := Classify(in)
		assert.Contains(t, []Classification{Essential, Flex}, class)
	}
}
