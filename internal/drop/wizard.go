package drop

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/tokendrop/internal/dna"
	"github.com/dmitrijs2005/tokendrop/internal/prompt"
	"github.com/dmitrijs2005/tokendrop/internal/token"
)

// CollectLRO walks the operator through the full LRO question list and
// returns the assembled drop plus its identifier scheme. The defaults mirror
// a typical fix-and-flip promissory batch so a test run needs few answers.
func CollectLRO(p *prompt.Prompter, symbol string, seriesDigits, tokenDigits int) (*token.LRODrop, dna.Scheme, error) {
	d := &token.LRODrop{}
	var err error

	ask := func(dst *string, question, def string) {
		if err != nil {
			return
		}
		*dst, err = p.AskRequired(question, def)
	}

	ask(&d.Series, "What is the lro series? (e.g. A,B,C,etc)", "A")
	ask(&d.Name, "What is the name of the property?", "")
	ask(&d.ExternalURL, "What is the external url for this series?", "")
	if err != nil {
		return nil, dna.Scheme{}, err
	}
	ask(&d.Address1, "What is the address 1 of the property?", d.Name)
	ask(&d.Address2, "What is the address 2 of the property?", "")
	ask(&d.Purpose, "What is the purpose of this loan?", "Rehab of House")
	ask(&d.SecurityPosition, "What is the security position of this loan? (e.g. First Lien)", "First Lien")
	ask(&d.AssetURL, "What is the asset url for this property?", "")
	ask(&d.OfferingCircular, "What is the url for the offering circular?", "")
	ask(&d.TokenRegistrationURL, "What is the url for investors to register their tokens?", d.ExternalURL)
	if err != nil {
		return nil, dna.Scheme{}, err
	}

	if d.LoanID, err = p.AskInt("What is the lro id?", 0); err != nil {
		return nil, dna.Scheme{}, err
	}
	if d.LoanAmount, err = p.AskDecimal("What is the loan amount for this token? (e.g. 40000.00)", decimal.NewFromInt(40000)); err != nil {
		return nil, dna.Scheme{}, err
	}
	if d.Amount, err = p.AskDecimal("What is the investment amount for this token? (e.g. 1000.00)", decimal.NewFromInt(1000)); err != nil {
		return nil, dna.Scheme{}, err
	}
	if d.Rate, err = p.AskDecimal("What is the lro rate? (e.g. 5.0)", decimal.NewFromInt(12)); err != nil {
		return nil, dna.Scheme{}, err
	}
	if d.Term, err = p.AskInt("What is the lro term? (e.g. 12)", 15); err != nil {
		return nil, dna.Scheme{}, err
	}
	if d.LTARV, err = p.AskFloat("What is the LT Arv? (e.g. 72.3)", 68.6); err != nil {
		return nil, dna.Scheme{}, err
	}
	if d.InvestmentDate, err = p.AskDate("What is the investment date? (YYYY-MM-DD)", time.Now()); err != nil {
		return nil, dna.Scheme{}, err
	}
	if d.MaturityDate, err = p.AskDate("What is the maturity date? (YYYY-MM-DD)", d.InvestmentDate.AddDate(0, d.Term, 0)); err != nil {
		return nil, dna.Scheme{}, err
	}
	if d.TokenCount, err = p.AskInt("How many tokens to be generated?", 2); err != nil {
		return nil, dna.Scheme{}, err
	}

	scheme := dna.Scheme{
		Symbol:       symbol,
		Series:       d.Series,
		LoanID:       d.LoanID,
		SeriesDigits: seriesDigits,
		TokenDigits:  tokenDigits,
	}
	return d, scheme, nil
}

// CollectNote asks the short Note question list.
func CollectNote(p *prompt.Prompter) (*token.NoteDrop, error) {
	d := &token.NoteDrop{}
	var err error

	if d.Series, err = p.AskRequired("What is the note series? (e.g. A,B,C,etc)", "A"); err != nil {
		return nil, err
	}
	if d.Rate, err = p.AskFloat("What is the note rate? (e.g. 5.0)", 5.0); err != nil {
		return nil, err
	}
	if d.Length, err = p.AskInt("What is the note length? (in days)", 60); err != nil {
		return nil, err
	}
	if d.MaturityDate, err = p.AskDate("What is the maturity date? (YYYY-MM-DD)", time.Now().AddDate(0, 0, d.Length)); err != nil {
		return nil, err
	}
	if d.TokenCount, err = p.AskInt("How many tokens to be generated?", 10); err != nil {
		return nil, err
	}
	return d, nil
}
