package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// redemptionTokenABI is the surface of the deployed token contract the
// tooling consumes. The contract itself (ERC-721 extensions, roles,
// pausability) is an external collaborator.
const redemptionTokenABI = `[
  {"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"series","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"totalMinted","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"ownerOf","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"address"}]},
  {"type":"function","name":"tokenURI","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"safeMint","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"uri","type":"string"}],"outputs":[]},
  {"type":"constructor","stateMutability":"nonpayable","inputs":[{"name":"initialOwner","type":"address"},{"name":"seriesId","type":"string"},{"name":"maxSupply","type":"uint256"}]}
]`

// RedemptionToken is the contract handle orchestrators and the console work
// against; the RPC-backed implementation is returned by Client.Attach and
// Client.Deploy, fakes implement it in tests.
type RedemptionToken interface {
	Address() common.Address
	Symbol(ctx context.Context) (string, error)
	Series(ctx context.Context) (string, error)
	TotalSupply(ctx context.Context) (*big.Int, error)
	TotalMinted(ctx context.Context) (*big.Int, error)
	OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error)
	TokenURI(ctx context.Context, tokenID *big.Int) (string, error)
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	SafeMint(ctx context.Context, to common.Address, uri string) (*types.Transaction, error)
}

type boundToken struct {
	addr common.Address
	bc   *bind.BoundContract
	opts func() *bind.TransactOpts
}

func (t *boundToken) Address() common.Address { return t.addr }

func (t *boundToken) callOne(ctx context.Context, method string, params ...any) (any, error) {
	var out []any
	if err := t.bc.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, fmt.Errorf("calling %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("calling %s: empty result", method)
	}
	return out[0], nil
}

func (t *boundToken) Symbol(ctx context.Context) (string, error) {
	v, err := t.callOne(ctx, "symbol")
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (t *boundToken) Series(ctx context.Context) (string, error) {
	v, err := t.callOne(ctx, "series")
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (t *boundToken) TotalSupply(ctx context.Context) (*big.Int, error) {
	v, err := t.callOne(ctx, "totalSupply")
	if err != nil {
		return nil, err
	}
	return v.(*big.Int), nil
}

func (t *boundToken) TotalMinted(ctx context.Context) (*big.Int, error) {
	v, err := t.callOne(ctx, "totalMinted")
	if err != nil {
		return nil, err
	}
	return v.(*big.Int), nil
}

func (t *boundToken) OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error) {
	v, err := t.callOne(ctx, "ownerOf", tokenID)
	if err != nil {
		return common.Address{}, err
	}
	return v.(common.Address), nil
}

func (t *boundToken) TokenURI(ctx context.Context, tokenID *big.Int) (string, error) {
	v, err := t.callOne(ctx, "tokenURI", tokenID)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (t *boundToken) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	v, err := t.callOne(ctx, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return v.(*big.Int), nil
}

func (t *boundToken) SafeMint(ctx context.Context, to common.Address, uri string) (*types.Transaction, error) {
	opts := t.opts()
	opts.Context = ctx
	tx, err := t.bc.Transact(opts, "safeMint", to, uri)
	if err != nil {
		return nil, fmt.Errorf("safeMint: %w", err)
	}
	return tx, nil
}
