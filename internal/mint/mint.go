// Package mint submits one mint transaction per generated token, in
// generation order, against a redemption token contract.
package mint

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	commonerr "github.com/dmitrijs2005/tokendrop/internal/common"
	"github.com/dmitrijs2005/tokendrop/internal/ledger"
	"github.com/dmitrijs2005/tokendrop/internal/logging"
	"github.com/dmitrijs2005/tokendrop/internal/token"
)

// Request describes one mint batch: the recipient wallet, the metadata
// directory CID the token URIs are built from, and the records to mint.
type Request struct {
	SeriesID    string
	Wallet      common.Address
	Gateway     string
	MetadataCID string
	Records     []token.Record
}

// Recorder is the subset of the ledger the minter writes to. Nil-able in
// tests and when running without a ledger file.
type Recorder interface {
	RecordMint(ctx context.Context, m *ledger.Mint) error
}

// Minter drives mint batches against one contract binding.
type Minter struct {
	contract RedemptionToken
	recorder Recorder
	log      logging.Logger
}

// RedemptionToken is the contract surface the minter needs. Satisfied by
// chain.RedemptionToken.
type RedemptionToken interface {
	Address() common.Address
	TotalSupply(ctx context.Context) (*big.Int, error)
	TotalMinted(ctx context.Context) (*big.Int, error)
	SafeMint(ctx context.Context, to common.Address, uri string) (*types.Transaction, error)
}

func New(contract RedemptionToken, recorder Recorder, log logging.Logger) *Minter {
	return &Minter{contract: contract, recorder: recorder, log: log}
}

// Available returns the remaining mintable supply of the contract.
func (m *Minter) Available(ctx context.Context) (*big.Int, error) {
	supply, err := m.contract.TotalSupply(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading total supply: %w", err)
	}
	minted, err := m.contract.TotalMinted(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading total minted: %w", err)
	}
	return new(big.Int).Sub(supply, minted), nil
}

// Mint submits one safeMint per record, sequentially and in record order.
//
// Before any transaction is sent the remaining supply is checked against the
// batch size; a batch that cannot fully fit is rejected with ErrSupplyExceeded
// and nothing is submitted. A mid-batch failure stops the batch immediately;
// transactions already sent stand, and the ledger holds their trace.
func (m *Minter) Mint(ctx context.Context, req *Request) ([]ledger.Mint, error) {
	available, err := m.Available(ctx)
	if err != nil {
		return nil, err
	}
	need := big.NewInt(int64(len(req.Records)))
	if need.Cmp(available) > 0 {
		return nil, fmt.Errorf("batch of %d exceeds available supply %s: %w",
			len(req.Records), available, commonerr.ErrSupplyExceeded)
	}

	contractAddr := m.contract.Address().Hex()
	var done []ledger.Mint
	for _, rec := range req.Records {
		uri := token.MetadataURL(req.Gateway, req.MetadataCID, rec.DNA)

		tx, err := m.contract.SafeMint(ctx, req.Wallet, uri)
		if err != nil {
			return done, fmt.Errorf("minting %s: %w", rec.DNA, err)
		}

		entry := ledger.Mint{
			DNA:      rec.DNA,
			SeriesID: req.SeriesID,
			Contract: contractAddr,
			Wallet:   req.Wallet.Hex(),
			TxHash:   tx.Hash().Hex(),
			MintedAt: time.Now().UTC(),
		}
		if m.recorder != nil {
			if err := m.recorder.RecordMint(ctx, &entry); err != nil {
				// the mint stands on chain even if the local trace fails
				m.log.Warn(ctx, "failed to record mint locally", "dna", rec.DNA, "error", err)
			}
		}

		m.log.Info(ctx, "minted token", "dna", rec.DNA, "tx", entry.TxHash, "uri", uri)
		done = append(done, entry)
	}

	return done, nil
}
