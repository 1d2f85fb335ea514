// Package console implements the interactive contract console: connect to a
// deployed redemption token, list minted tokens, show balances, deploy
// contracts and run the full generate-pin-mint flow.
package console

import (
	"bufio"
	"context"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/dmitrijs2005/tokendrop/internal/chain"
	"github.com/dmitrijs2005/tokendrop/internal/config"
	"github.com/dmitrijs2005/tokendrop/internal/dna"
	"github.com/dmitrijs2005/tokendrop/internal/drop"
	"github.com/dmitrijs2005/tokendrop/internal/ledger"
	"github.com/dmitrijs2005/tokendrop/internal/logging"
	"github.com/dmitrijs2005/tokendrop/internal/mint"
	"github.com/dmitrijs2005/tokendrop/internal/prompt"
	"github.com/dmitrijs2005/tokendrop/internal/token"
)

// Chain is the client surface the console needs. Satisfied by *chain.Client.
type Chain interface {
	SignerAddress() ethcommon.Address
	Attach(addr ethcommon.Address) chain.RedemptionToken
	Deploy(ctx context.Context, artifactPath string, owner ethcommon.Address, seriesID string, maxSupply int64) (chain.RedemptionToken, error)
}

// DropGenerator is the generation surface the mint command drives.
// Satisfied by *drop.Generator.
type DropGenerator interface {
	GenerateLRO(ctx context.Context, d *token.LRODrop, scheme dna.Scheme, opts drop.Options) (*drop.Result, error)
}

type App struct {
	config    *config.Config
	chain     Chain
	generator DropGenerator
	session   *Session
	prompt    *prompt.Prompter
	log       logging.Logger
}

func NewApp(cfg *config.Config, ch Chain, gen DropGenerator, p *prompt.Prompter, log logging.Logger) *App {
	return &App{
		config:    cfg,
		chain:     ch,
		generator: gen,
		session:   &Session{},
		prompt:    p,
		log:       log,
	}
}

// Run starts the console loop over stdin and blocks until exit or EOF.
func (a *App) Run(ctx context.Context) {
	printlnFn(fmt.Sprintf("Loaded environment defaults for: %s (chain id %d)", a.config.Network, a.config.ChainID))
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

// status renders the prompt segment: the connected contract's symbol and
// series, or a hint that nothing is connected yet.
func (a *App) status() string {
	if !a.session.connected() {
		return "not connected"
	}
	return fmt.Sprintf("%s/%s", a.session.symbol, a.session.series)
}

// ensureConnected connects to the configured default contract on first use,
// so commands work without an explicit connect.
func (a *App) ensureConnected(ctx context.Context) error {
	if a.session.connected() {
		return nil
	}
	return a.connectTo(ctx, a.config.ContractAddress)
}

func (a *App) connectTo(ctx context.Context, addrHex string) error {
	addr, err := chain.ParseAddress(addrHex)
	if err != nil {
		printlnFn("Invalid contract address:", addrHex)
		return err
	}

	if err := a.session.use(ctx, a.chain.Attach(addr)); err != nil {
		printlnFn("Could not read contract at", addrHex)
		return err
	}

	printlnFn(fmt.Sprintf("Attached to %s series %s at %s",
		a.session.symbol, a.session.series, a.session.address().Hex()))
	return nil
}

// Connect prompts for a contract address and binds the session to it.
func (a *App) Connect(ctx context.Context) error {
	def := a.config.ContractAddress
	if a.session.connected() {
		def = a.session.address().Hex()
	}
	addrHex, err := a.prompt.AskRequired("What is the address of the contract we should connect to?", def)
	if err != nil {
		return err
	}
	return a.connectTo(ctx, addrHex)
}

// Tokens lists every minted token with its owner and metadata URI. The
// collected list is cached in the session; on a repeat run the operator
// chooses between the cached list and a fresh collection.
func (a *App) Tokens(ctx context.Context) error {
	if err := a.ensureConnected(ctx); err != nil {
		return err
	}

	if a.session.tokenList != nil {
		keep, err := a.prompt.Confirm(
			fmt.Sprintf("Show the %d token(s) from the last run?", len(a.session.tokenList)), true)
		if err != nil {
			return err
		}
		if !keep {
			a.session.tokenList = nil
		}
	}

	if a.session.tokenList == nil {
		printlnFn("Collecting minted token data...")
		minted, err := a.session.contract.TotalMinted(ctx)
		if err != nil {
			printlnFn("Error reading minted count:", err)
			return err
		}

		list := make([]mintedToken, 0, minted.Int64())
		for i := int64(0); i < minted.Int64(); i++ {
			id := big.NewInt(i)
			owner, err := a.session.contract.OwnerOf(ctx, id)
			if err != nil {
				printlnFn("Error reading owner:", err)
				return err
			}
			uri, err := a.session.contract.TokenURI(ctx, id)
			if err != nil {
				printlnFn("Error reading token URI:", err)
				return err
			}
			list = append(list, mintedToken{Owner: owner, URI: uri})
		}
		a.session.tokenList = list
	} else {
		printlnFn("Showing cached minted token data...")
	}

	if len(a.session.tokenList) == 0 {
		printlnFn("This contract has no minted tokens to show.")
		return nil
	}
	for i, t := range a.session.tokenList {
		printlnFn(fmt.Sprintf("Token %d: owned by %s, uri %s", i, t.Owner.Hex(), t.URI))
	}
	return nil
}

// Balance prompts for a wallet and prints its token balance.
func (a *App) Balance(ctx context.Context) error {
	if err := a.ensureConnected(ctx); err != nil {
		return err
	}

	def := a.session.lastWallet
	if def == "" {
		def = a.chain.SignerAddress().Hex()
	}
	walletHex, err := a.prompt.AskRequired("What wallet address should we show a balance for?", def)
	if err != nil {
		return err
	}
	wallet, err := chain.ParseAddress(walletHex)
	if err != nil {
		printlnFn("Invalid wallet address:", walletHex)
		return err
	}
	a.session.lastWallet = wallet.Hex()

	balance, err := a.session.contract.BalanceOf(ctx, wallet)
	if err != nil {
		printlnFn("Error reading balance:", err)
		return err
	}
	printlnFn(fmt.Sprintf("Wallet %s has a balance of %s", wallet.Hex(), balance))
	return nil
}

// Mint runs the full batch flow against the connected contract: collect the
// drop inputs, generate and pin the assets, then confirm and mint every
// generated token to one wallet.
func (a *App) Mint(ctx context.Context) error {
	if err := a.ensureConnected(ctx); err != nil {
		return err
	}

	d, scheme, err := drop.CollectLRO(a.prompt, a.session.symbol, a.config.SeriesDigits, a.config.TokenDigits)
	if err != nil {
		return err
	}

	push, err := a.prompt.Confirm("Do you want to push these to IPFS?", false)
	if err != nil {
		return err
	}

	res, err := a.generator.GenerateLRO(ctx, d, scheme, drop.Options{
		RootPath:     a.config.RootPath,
		Gateway:      a.config.IPFSGateway,
		TemplateImg:  drop.LROImageTemplate,
		TemplateMeta: drop.LROMetadataTemplate,
		SkipPin:      !push,
	})
	if err != nil {
		printlnFn("Generation failed:", err)
		return err
	}
	printlnFn(fmt.Sprintf("%d token(s) generated under %s", len(res.Records), res.SeriesPath))

	if !push {
		printlnFn("Pinning was skipped, so there is nothing to mint on chain.")
		return nil
	}

	ok, err := a.prompt.Confirm(
		fmt.Sprintf("Please confirm you want to mint these tokens on the %s network", a.config.Network), false)
	if err != nil || !ok {
		return err
	}

	def := a.session.lastWallet
	if def == "" {
		def = a.chain.SignerAddress().Hex()
	}
	walletHex, err := a.prompt.AskRequired("What wallet address should own these tokens?", def)
	if err != nil {
		return err
	}
	wallet, err := chain.ParseAddress(walletHex)
	if err != nil {
		printlnFn("Invalid wallet address:", walletHex)
		return err
	}
	a.session.lastWallet = wallet.Hex()

	var recorder mint.Recorder
	l, err := ledger.Open(ctx, filepath.Join(a.config.RootPath, "ledger.db"))
	if err != nil {
		a.log.Warn(ctx, "ledger unavailable, mints will not be traced locally", "error", err)
	} else {
		defer l.Close()
		recorder = l
		if err := l.RecordDrop(ctx, &ledger.Drop{
			SeriesID:    res.SeriesID,
			Series:      d.Series,
			LoanID:      d.LoanID,
			TokenCount:  d.TokenCount,
			ImageCID:    res.ImageCID,
			MetadataCID: res.MetadataCID,
			CreatedAt:   time.Now().UTC(),
		}, res.Records); err != nil {
			a.log.Warn(ctx, "failed to record drop in ledger", "error", err)
		}
	}

	minter := mint.New(a.session.contract, recorder, a.log)
	done, err := minter.Mint(ctx, &mint.Request{
		SeriesID:    res.SeriesID,
		Wallet:      wallet,
		Gateway:     a.config.IPFSGateway,
		MetadataCID: res.MetadataCID,
		Records:     res.Records,
	})
	if err != nil {
		printlnFn(fmt.Sprintf("Mint stopped after %d of %d: %v", len(done), len(res.Records), err))
		return err
	}

	printlnFn(fmt.Sprintf("%d token(s) minted to %s", len(done), wallet.Hex()))
	a.session.tokenList = nil
	return nil
}

// Deploy prompts for the constructor arguments, deploys a fresh contract and
// offers to connect the session to it.
func (a *App) Deploy(ctx context.Context) error {
	ownerHex, err := a.prompt.AskRequired("What wallet should own this contract?", a.chain.SignerAddress().Hex())
	if err != nil {
		return err
	}
	owner, err := chain.ParseAddress(ownerHex)
	if err != nil {
		printlnFn("Invalid owner address:", ownerHex)
		return err
	}

	seriesID, err := a.prompt.AskRequired("What is the lro series? (e.g. A,B,C,etc)", "A")
	if err != nil {
		return err
	}
	maxSupply, err := a.prompt.AskInt("What is the total token supply for this contract? (e.g 50)", 50)
	if err != nil {
		return err
	}
	if maxSupply < 1 {
		printlnFn("Unable to deploy without a positive total supply.")
		return nil
	}

	ok, err := a.prompt.Confirm(
		fmt.Sprintf("Please confirm you want to deploy this contract to the %s network", a.config.Network), false)
	if err != nil || !ok {
		return err
	}

	contract, err := a.chain.Deploy(ctx, a.config.ArtifactPath, owner, seriesID, int64(maxSupply))
	if err != nil {
		printlnFn("Deploy failed:", err)
		return err
	}
	printlnFn("New contract address:", contract.Address().Hex())

	connect, err := a.prompt.Confirm("Would you like to connect to the new contract?", true)
	if err != nil || !connect {
		return err
	}
	return a.session.use(ctx, contract)
}
