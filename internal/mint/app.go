package mint

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/tokendrop/internal/chain"
	"github.com/dmitrijs2005/tokendrop/internal/config"
	"github.com/dmitrijs2005/tokendrop/internal/dna"
	"github.com/dmitrijs2005/tokendrop/internal/ledger"
	"github.com/dmitrijs2005/tokendrop/internal/logging"
	"github.com/dmitrijs2005/tokendrop/internal/prompt"
	"github.com/dmitrijs2005/tokendrop/internal/token"
)

// App drives the interactive mint workflow: pick a generated series from the
// ledger, connect to the contract, confirm and mint the whole batch.
type App struct {
	config *config.Config
	prompt *prompt.Prompter
	log    logging.Logger
}

func NewApp(cfg *config.Config, log logging.Logger) *App {
	return &App{config: cfg, prompt: prompt.NewStdio(), log: log}
}

func (a *App) Run(ctx context.Context) error {
	seriesID, err := a.prompt.AskRequired("Series id (e.g. 000A-13994)", "")
	if err != nil {
		return err
	}

	l, err := ledger.Open(ctx, filepath.Join(a.config.RootPath, "ledger.db"))
	if err != nil {
		return err
	}
	defer l.Close()

	d, err := l.DropBySeries(ctx, seriesID)
	if err != nil {
		return fmt.Errorf("series %s not found in ledger: %w", seriesID, err)
	}
	if d.MetadataCID == "" {
		return fmt.Errorf("series %s was generated without pinning, nothing to mint", seriesID)
	}

	records, err := loadRecords(ctx, l, d, a.config)
	if err != nil {
		return err
	}

	walletHex, err := a.prompt.AskRequired("Recipient wallet", "")
	if err != nil {
		return err
	}
	wallet, err := chain.ParseAddress(walletHex)
	if err != nil {
		return err
	}

	contractHex, err := a.prompt.AskRequired("Contract address", a.config.ContractAddress)
	if err != nil {
		return err
	}
	contractAddr, err := chain.ParseAddress(contractHex)
	if err != nil {
		return err
	}

	client, err := chain.Dial(ctx, a.config.RPCURL, a.config.PrivateKey, a.config.ChainID, a.log)
	if err != nil {
		return err
	}
	defer client.Close()

	contract := client.Attach(contractAddr)
	minter := New(contract, l, a.log)

	available, err := minter.Available(ctx)
	if err != nil {
		return err
	}
	ok, err := a.prompt.Confirm(fmt.Sprintf("Mint %d token(s) to %s (%s available)?",
		len(records), wallet.Hex(), available), false)
	if err != nil || !ok {
		return err
	}

	done, err := minter.Mint(ctx, &Request{
		SeriesID:    seriesID,
		Wallet:      wallet,
		Gateway:     a.config.IPFSGateway,
		MetadataCID: d.MetadataCID,
		Records:     records,
	})
	if err != nil {
		return fmt.Errorf("minted %d of %d: %w", len(done), len(records), err)
	}

	a.log.Info(ctx, "batch minted", "series", seriesID, "count", len(done))
	return nil
}

// loadRecords returns the token identifiers of a recorded drop, preferring
// the exact DNAs persisted at generation time. The token URIs are built from
// these names, so a recomputed identifier that drifts from the pinned
// filenames would mint tokens pointing at nothing.
func loadRecords(ctx context.Context, l *ledger.Ledger, d *ledger.Drop, cfg *config.Config) ([]token.Record, error) {
	records, err := l.TokensBySeries(ctx, d.SeriesID)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		return records, nil
	}
	// drops recorded before token rows existed
	return rebuildRecords(d, cfg), nil
}

// rebuildRecords reconstructs the token identifiers of a recorded drop from
// its scheme components. Fallback only; the recorded DNAs are authoritative.
func rebuildRecords(d *ledger.Drop, cfg *config.Config) []token.Record {
	scheme := dna.Scheme{
		Symbol:       "GLRT",
		Series:       d.Series,
		LoanID:       d.LoanID,
		SeriesDigits: cfg.SeriesDigits,
		TokenDigits:  cfg.TokenDigits,
	}

	var records []token.Record
	for seq := 0; seq < d.TokenCount; seq++ {
		records = append(records, token.Record{Seq: seq, DNA: scheme.Token(seq)})
	}
	return records
}
