package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is one of the supported ISO-like currency codes. The set is
// fixed at compile time; adding a currency is a code change.
type Currency string

const (
	EUR Currency = "EUR"
	USD Currency = "USD"
	GBP Currency = "GBP"
	BRL Currency = "BRL"
	JPY Currency = "JPY"
	AUD Currency = "AUD"
	CAD Currency = "CAD"
	CHF Currency = "CHF"
	CNY Currency = "CNY"
	SEK Currency = "SEK"
	NZD Currency = "NZD"
	MXN Currency = "MXN"
	SGD Currency = "SGD"
	HKD Currency = "HKD"
	NOK Currency = "NOK"
	KRW Currency = "KRW"
	TRY Currency = "TRY"
	INR Currency = "INR"
	RUB Currency = "RUB"
	ZAR Currency = "ZAR"
)

// conversionScale is the number of fractional digits kept when converting
// between currencies. Amounts are only rounded to 2 digits when formatted.
const conversionScale = 10

type currencyInfo struct {
	rateToEUR decimal.Decimal // Exchange rate to the EUR base
	symbol    string          // Display symbol, prefixed when formatting
}

var currencyTable = map[Currency]currencyInfo{
	EUR: {decimal.NewFromFloat(1.0), "€"},
	USD: {decimal.NewFromFloat(0.92), "$"},
	GBP: {decimal.NewFromFloat(1.14), "£"},
	BRL: {decimal.NewFromFloat(0.18), "R$"},
	JPY: {decimal.NewFromFloat(0.0066), "¥"},
	AUD: {decimal.NewFromFloat(0.62), "A$"},
	CAD: {decimal.NewFromFloat(0.68), "C$"},
	CHF: {decimal.NewFromFloat(1.02), "CHF"},
	CNY: {decimal.NewFromFloat(0.13), "¥"},
	SEK: {decimal.NewFromFloat(0.087), "kr"},
	NZD: {decimal.NewFromFloat(0.56), "NZ$"},
	MXN: {decimal.NewFromFloat(0.052), "$"},
	SGD: {decimal.NewFromFloat(0.67), "S$"},
	HKD: {decimal.NewFromFloat(0.12), "HK$"},
	NOK: {decimal.NewFromFloat(0.088), "kr"},
	KRW: {decimal.NewFromFloat(0.00076), "₩"},
	TRY: {decimal.NewFromFloat(0.034), "₺"},
	INR: {decimal.NewFromFloat(0.011), "₹"},
	RUB: {decimal.NewFromFloat(0.012), "₽"},
	ZAR: {decimal.NewFromFloat(0.055), "R"},
}

// Currencies returns every supported currency code.
func Currencies() []Currency {
	return []Currency{
		EUR, USD, GBP, BRL, JPY, AUD, CAD, CHF, CNY, SEK,
		NZD, MXN, SGD, HKD, NOK, KRW, TRY, INR, RUB, ZAR,
	}
}

// ParseCurrency validates a currency code, case-insensitively.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(code))
	if _, ok := currencyTable[c]; !ok {
		return "", fmt.Errorf("currency '%s' doesn't exist: %w", code, ErrValidation)
	}
	return c, nil
}

// ConvertTo converts an amount from this currency into the target one,
// chaining through the EUR base. The result keeps conversionScale
// fractional digits, rounded half-up, so repeated conversions don't
// accumulate error. Identity when both currencies match.
func (c Currency) ConvertTo(amount decimal.Decimal, target Currency) decimal.Decimal {
	if c == target {
		return amount
	}
	amountInEUR := amount.Mul(currencyTable[c].rateToEUR)
	return amountInEUR.DivRound(currencyTable[target].rateToEUR, conversionScale)
}

// Format renders an amount rounded half-up to exactly 2 decimals with the
// currency symbol prefixed.
func (c Currency) Format(amount decimal.Decimal) string {
	return currencyTable[c].symbol + amount.StringFixed(2)
}

// Symbol returns the display symbol for the currency.
func (c Currency) Symbol() string {
	return currencyTable[c].symbol
}
