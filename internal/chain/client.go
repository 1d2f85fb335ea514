// Package chain wraps the Ethereum RPC client and the redemption-token
// contract binding. It owns signer key handling and contract deploys;
// everything above it works through the RedemptionToken interface.
package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	commonerr "github.com/dmitrijs2005/tokendrop/internal/common"
	"github.com/dmitrijs2005/tokendrop/internal/logging"
)

type Client struct {
	eth    *ethclient.Client
	abi    abi.ABI
	key    *bind.TransactOpts
	signer common.Address
	log    logging.Logger
}

// Dial connects to the RPC endpoint and prepares a transactor for the given
// hex-encoded private key on the given chain.
func Dial(ctx context.Context, rpcURL, privateKeyHex string, chainID int64, log logging.Logger) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", rpcURL, err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(chainID))
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("preparing transactor: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(redemptionTokenABI))
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("parsing contract ABI: %w", err)
	}

	signer := crypto.PubkeyToAddress(key.PublicKey)
	log.Info(ctx, "connected to chain", "rpc", rpcURL, "chainId", chainID, "signer", signer.Hex())

	return &Client{eth: eth, abi: parsed, key: opts, signer: signer, log: log}, nil
}

func (c *Client) Close() {
	c.eth.Close()
}

// SignerAddress is the wallet address transactions are sent from.
func (c *Client) SignerAddress() common.Address {
	return c.signer
}

// Attach binds the redemption-token contract at addr.
func (c *Client) Attach(addr common.Address) RedemptionToken {
	bc := bind.NewBoundContract(addr, c.abi, c.eth, c.eth, c.eth)
	return &boundToken{addr: addr, bc: bc, opts: c.transactOpts}
}

// ParseAddress validates and parses a user-supplied hex wallet address.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%q: %w", s, commonerr.ErrInvalidAddress)
	}
	return common.HexToAddress(s), nil
}

// artifact is the slice of a compiled-contract build artifact the deploy
// needs.
type artifact struct {
	Bytecode string `json:"bytecode"`
}

// Deploy deploys a new redemption-token contract with the constructor
// arguments (owner, seriesId, maxSupply) and waits for it to be mined.
// The compiled bytecode is read from the configured artifact file.
func (c *Client) Deploy(ctx context.Context, artifactPath string, owner common.Address, seriesID string, maxSupply int64) (RedemptionToken, error) {
	if maxSupply < 1 {
		return nil, commonerr.ErrInvalidSupply
	}

	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return nil, fmt.Errorf("reading contract artifact: %w", err)
	}
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing contract artifact: %w", err)
	}
	if a.Bytecode == "" {
		return nil, fmt.Errorf("contract artifact %s has no bytecode", artifactPath)
	}

	opts := c.transactOpts()
	opts.Context = ctx

	addr, tx, bc, err := bind.DeployContract(opts, c.abi, common.FromHex(a.Bytecode), c.eth,
		owner, seriesID, big.NewInt(maxSupply))
	if err != nil {
		return nil, fmt.Errorf("deploying contract: %w", err)
	}

	c.log.Info(ctx, "contract deploy submitted", "address", addr.Hex(), "tx", tx.Hash().Hex())
	if _, err := bind.WaitDeployed(ctx, c.eth, tx); err != nil {
		return nil, fmt.Errorf("waiting for deploy of %s: %w", addr.Hex(), err)
	}

	return &boundToken{addr: addr, bc: bc, opts: c.transactOpts}, nil
}

// transactOpts returns a copy so per-call contexts never leak between
// transactions.
func (c *Client) transactOpts() *bind.TransactOpts {
	opts := *c.key
	return &opts
}
