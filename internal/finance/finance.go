// Package finance derives the financial fields of a redemption token from
// its raw loan terms: calendar day count, expected return under a 360-day
// simple-interest convention, and en-US currency display strings.
package finance

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var usdPrinter = message.NewPrinter(language.AmericanEnglish)

// Terms are the raw inputs collected for a drop. Amounts and rate are
// decimal numbers (rate in percent, e.g. 12.0), dates are calendar dates.
type Terms struct {
	Amount         decimal.Decimal
	Rate           decimal.Decimal
	LoanAmount     decimal.Decimal
	InvestmentDate time.Time
	MaturityDate   time.Time
}

// Derivation is the computed field set. ExpectedReturn is rounded to two
// decimal places; the USD strings carry a dollar sign, grouping separators
// and two decimals.
type Derivation struct {
	Days           int
	ExpectedReturn decimal.Decimal
	AmountUSD      string
	ReturnUSD      string
	LoanAmountUSD  string
}

// Derive computes the derivation for the given terms.
//
// Days is the rounded calendar-day difference maturity − investment.
// ExpectedReturn is amount × (1 + rate/100 × days/360), rounded to 2 decimals
// only after the full product is computed. A maturity before the investment
// date yields a negative day count and a return below principal; that is the
// caller's input discipline, not validated here.
func Derive(t Terms) Derivation {
	days := int(math.Round(t.MaturityDate.Sub(t.InvestmentDate).Hours() / 24))

	factor := decimal.NewFromInt(1).Add(
		t.Rate.Div(decimal.NewFromInt(100)).
			Mul(decimal.NewFromInt(int64(days))).
			Div(decimal.NewFromInt(360)))
	ret := t.Amount.Mul(factor).Round(2)

	return Derivation{
		Days:           days,
		ExpectedReturn: ret,
		AmountUSD:      USD(t.Amount),
		ReturnUSD:      USD(ret),
		LoanAmountUSD:  USD(t.LoanAmount),
	}
}

// USD formats v as an en-US currency string, e.g. "$40,000.00". The dollars
// and cents come straight from the decimal so amounts beyond float64
// precision keep their exact cents.
func USD(v decimal.Decimal) string {
	r := v.Round(2)
	sign := ""
	if r.IsNegative() {
		sign = "-"
	}
	r = r.Abs()
	cents := r.StringFixed(2)
	return sign + "$" + usdPrinter.Sprintf("%v", number.Decimal(r.IntPart())) + cents[len(cents)-3:]
}
