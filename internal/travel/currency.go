package travel

import "github.com/mbenedetti/viaggio/internal/domain"

// currencyTable is the static per-country currency reference. Countries
// outside the table get the Unknown/N-A sentinel rather than an error.
var currencyTable = map[string]domain.CurrencyInfo{
	"Italy":          {Currency: "EUR", RateVsEUR: "1.00"},
	"Spain":          {Currency: "EUR", RateVsEUR: "1.00"},
	"France":         {Currency: "EUR", RateVsEUR: "1.00"},
	"Germany":        {Currency: "EUR", RateVsEUR: "1.00"},
	"United States":  {Currency: "USD", RateVsEUR: "1 EUR = 1.08 USD"},
	"United Kingdom": {Currency: "GBP", RateVsEUR: "1 EUR = 0.86 GBP"},
	"Japan":          {Currency: "JPY", RateVsEUR: "1 EUR = 165.20 JPY"},
	"Thailand":       {Currency: "THB", RateVsEUR: "1 EUR = 39.50 THB"},
	"Brazil":         {Currency: "BRL", RateVsEUR: "1 EUR = 5.75 BRL"},
	"Mexico":         {Currency: "MXN", RateVsEUR: "1 EUR = 18.50 MXN"},
	"China":          {Currency: "CNY", RateVsEUR: "1 EUR = 7.78 CNY"},
	"India":          {Currency: "INR", RateVsEUR: "1 EUR = 88.50 INR"},
	"Turkey":         {Currency: "TRY", RateVsEUR: "1 EUR = 35.10 TRY"},
}

// CurrencyLookup resolves a country name to currency information against
// the static table. The lookup is pure and never fails: unknown or empty
// countries yield {"Unknown", "N/A"}.
type CurrencyLookup struct{}

// Lookup normalizes the country name (trimmed, title-cased) and returns
// its currency info or the unknown sentinel.
func (CurrencyLookup) Lookup(country string) domain.CurrencyInfo {
	if info, ok := currencyTable[normalizeCity(country)]; ok {
		return info
	}
	return domain.CurrencyInfo{Currency: "Unknown", RateVsEUR: domain.PriceUnavailable}
}
