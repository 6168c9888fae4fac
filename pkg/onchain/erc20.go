package onchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const erc20ABIJSON = `[
	{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

var erc20ABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic(fmt.Errorf("parse erc20 abi: %w", err))
	}
	erc20ABI = parsed
}

// ERC20 reads token state through a chain client. Decimals are cached for
// the lifetime of the process: on-chain decimals are immutable per asset,
// so entries are populated lazily and never invalidated.
type ERC20 struct {
	client ChainClient

	decimalsMtx sync.Mutex
	decimals    map[common.Address]uint8
}

// NewERC20 ...
func NewERC20(client ChainClient) *ERC20 {
	return &ERC20{
		client:   client,
		decimals: make(map[common.Address]uint8),
	}
}

// Decimals returns the token's decimal precision, hitting the chain only
// on the first lookup per token.
func (e *ERC20) Decimals(
	ctx context.Context, token common.Address,
) (uint8, error) {
	e.decimalsMtx.Lock()
	cached, ok := e.decimals[token]
	e.decimalsMtx.Unlock()
	if ok {
		return cached, nil
	}

	var decimals uint8
	if err := e.call(ctx, token, "decimals", &decimals); err != nil {
		return 0, err
	}

	e.decimalsMtx.Lock()
	e.decimals[token] = decimals
	e.decimalsMtx.Unlock()
	return decimals, nil
}

// Allowance returns the amount of token the owner granted the spender.
func (e *ERC20) Allowance(
	ctx context.Context, token, owner, spender common.Address,
) (*big.Int, error) {
	allowance := new(big.Int)
	if err := e.call(ctx, token, "allowance", &allowance, owner, spender); err != nil {
		return nil, err
	}
	return allowance, nil
}

// BalanceOf returns the owner's token balance in base units.
func (e *ERC20) BalanceOf(
	ctx context.Context, token, owner common.Address,
) (*big.Int, error) {
	balance := new(big.Int)
	if err := e.call(ctx, token, "balanceOf", &balance, owner); err != nil {
		return nil, err
	}
	return balance, nil
}

func (e *ERC20) call(
	ctx context.Context,
	token common.Address, method string, out interface{}, args ...interface{},
) error {
	data, err := erc20ABI.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("pack %s: %w", method, err)
	}
	raw, err := e.client.CallContract(
		ctx, ethereum.CallMsg{To: &token, Data: data}, nil,
	)
	if err != nil {
		return fmt.Errorf("call %s on %s: %w", method, token.Hex(), err)
	}
	if err := erc20ABI.UnpackIntoInterface(out, method, raw); err != nil {
		return fmt.Errorf("unpack %s: %w", method, err)
	}
	return nil
}

// PackApprove returns the calldata granting the spender the given
// allowance.
func PackApprove(spender common.Address, amount *big.Int) ([]byte, error) {
	return erc20ABI.Pack("approve", spender, amount)
}

// PackTransfer returns the calldata moving the given amount to the
// recipient.
func PackTransfer(to common.Address, amount *big.Int) ([]byte, error) {
	return erc20ABI.Pack("transfer", to, amount)
}
