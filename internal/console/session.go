package console

import (
	"context"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/dmitrijs2005/tokendrop/internal/chain"
)

// mintedToken is one collected token row in the cached list.
type mintedToken struct {
	Owner ethcommon.Address
	URI   string
}

// Session holds the interactive state between commands: the connected
// contract, its cached identity reads, the collected token list, and the
// remembered answer defaults that let an operator re-run a command without
// retyping everything.
type Session struct {
	contract chain.RedemptionToken

	// cached contract reads, valid while contract is unchanged
	symbol string
	series string

	// tokenList is the collected minted-token list; nil means not collected
	tokenList []mintedToken

	// remembered answers, offered as defaults on the next invocation
	lastWallet string
}

func (s *Session) connected() bool {
	return s.contract != nil
}

// use binds the session to a contract. Binding a different address drops the
// cached reads, the token list and the remembered answers, they belong to
// the previous contract.
func (s *Session) use(ctx context.Context, contract chain.RedemptionToken) error {
	if s.contract != nil && s.contract.Address() == contract.Address() {
		return nil
	}

	symbol, err := contract.Symbol(ctx)
	if err != nil {
		return err
	}
	series, err := contract.Series(ctx)
	if err != nil {
		return err
	}

	s.contract = contract
	s.symbol = symbol
	s.series = series
	s.resetResults()
	return nil
}

// resetResults clears the collected data and remembered answers.
func (s *Session) resetResults() {
	s.tokenList = nil
	s.lastWallet = ""
}

func (s *Session) address() ethcommon.Address {
	return s.contract.Address()
}
