package service

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-ingest/internal/domain/categorization"
	"github.com/FACorreiaa/statement-ingest/pkg/money"
)

// Summary totals a parsed statement. Spend figures are positive.
type Summary struct {
	Transactions int             `json:"transactions"`
	From         string          `json:"from,omitempty"`
	To           string          `json:"to,omitempty"`
	Income       *money.Money    `json:"income"`
	Spend        *money.Money    `json:"spend"`
	Net          *money.Money    `json:"net"`
	Essential    *money.Money    `json:"essential"`
	Flex         *money.Money    `json:"flex"`
	Categories   []CategoryTotal `json:"categories"`
}

// CategoryTotal is the spend of one category.
type CategoryTotal struct {
	Category string       `json:"category"`
	Spend    *money.Money `json:"spend"`
	Count    int          `json:"count"`
}

// EssentialShare is the percentage of spend classified essential.
func (s Summary) EssentialShare() decimal.Decimal {
	return s.Essential.PercentageOf(s.Spend)
}

// Summarize totals income, spend and the essential/flex split of result in currency.
func Summarize(result ParseResult, currency string) Summary {
	var income, spend, essential, flex []decimal.Decimal
	byCategory := map[string][]decimal.Decimal{}

	summary := Summary{Transactions: len(result.Transactions)}

	for _, tx := range result.Transactions {
		date := tx.Date.String()
		if summary.From == "" || date < summary.From {
			summary.From = date
		}
		if date > summary.To {
			summary.To = date
		}

		if !tx.IsExpense() {
			income = append(income, tx.Amount)
			continue
		}

		out := tx.Amount.Abs()
		spend = append(spend, out)
		byCategory[tx.Category] = append(byCategory[tx.Category], out)

		if tx.Classification() == categorization.Essential {
			essential = append(essential, out)
		} else {
			flex = append(flex, out)
		}
	}

	summary.Income = money.Sum(currency, income...)
	summary.Spend = money.Sum(currency, spend...)
	summary.Essential = money.Sum(currency, essential...)
	summary.Flex = money.Sum(currency, flex...)
	summary.Net = money.Sum(currency, summary.Income.ToDecimal(), summary.Spend.ToDecimal().Neg())

	for category, amounts := range byCategory {
		summary.Categories = append(summary.Categories, CategoryTotal{
			Category: category,
			Spend:    money.Sum(currency, amounts...),
			Count:    len(amounts),
		})
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		a, b := summary.Categories[i], summary.Categories[j]
		if a.Spend.Amount() != b.Spend.Amount() {
			return a.Spend.Amount() > b.Spend.Amount()
		}
		return a.Category < b.Category
	})

	return summary
}
