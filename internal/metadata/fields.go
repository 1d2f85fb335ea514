package metadata

import (
	"strconv"

	"github.com/dmitrijs2005/tokendrop/internal/finance"
	"github.com/dmitrijs2005/tokendrop/internal/token"
)

// LRORequired lists the fields every LRO metadata render must supply.
var LRORequired = []string{
	"dna", "series", "externalUrl", "tokenName", "address",
	"amountUSD", "returnUSD", "loanAmountUSD",
	"purpose", "securityPosition", "amount", "rate", "term", "ltarv",
	"loanId", "assetUrl", "investmentDate", "maturityDate", "tokenCount",
	"offeringCircular", "tokenRegistrationUrl", "tokenId", "uuid", "imageUrl",
}

// NoteRequired lists the fields every Note metadata render must supply.
var NoteRequired = []string{
	"series", "rate", "length", "tokenName", "maturityDate", "tokenId",
}

// LROFields builds the field map for one LRO token.
func LROFields(d *token.LRODrop, der finance.Derivation, rec *token.Record, tokenName string) map[string]any {
	return map[string]any{
		"dna":                  rec.DNA,
		"series":               d.Series,
		"externalUrl":          d.ExternalURL,
		"tokenName":            tokenName,
		"address":              d.Address(),
		"amountUSD":            der.AmountUSD,
		"returnUSD":            der.ReturnUSD,
		"loanAmountUSD":        der.LoanAmountUSD,
		"purpose":              d.Purpose,
		"securityPosition":     d.SecurityPosition,
		"amount":               d.Amount.String(),
		"rate":                 d.Rate.String(),
		"term":                 d.Term,
		"ltarv":                d.LTARV,
		"loanId":               d.LoanID,
		"assetUrl":             d.AssetURL,
		"investmentDate":       d.InvestmentDate.Format("2006-01-02"),
		"maturityDate":         d.MaturityDate.Format("2006-01-02"),
		"tokenCount":           d.TokenCount,
		"offeringCircular":     d.OfferingCircular,
		"tokenRegistrationUrl": d.TokenRegistrationURL,
		"tokenId":              rec.Seq,
		"uuid":                 rec.UUID,
		"imageUrl":             rec.ImageURL,
	}
}

// NoteFields builds the field map for one Note token. The maturity date is
// carried as Unix epoch seconds, the format the note contract consumers
// expect.
func NoteFields(d *token.NoteDrop, rec *token.Record, tokenName string) map[string]any {
	return map[string]any{
		"series":       d.Series,
		"rate":         d.Rate,
		"length":       d.Length,
		"tokenName":    tokenName,
		"maturityDate": strconv.FormatInt(d.MaturityDate.Unix(), 10),
		"tokenId":      rec.Seq,
		"uuid":         rec.UUID,
		"imageUrl":     rec.ImageURL,
	}
}
