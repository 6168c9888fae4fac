package onchain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Sender builds, signs and broadcasts legacy transactions on behalf of a
// wallet.
type Sender struct {
	client ChainClient
	wallet *Wallet

	chainIDMtx sync.Mutex
	chainID    *big.Int
}

// NewSender ...
func NewSender(client ChainClient, wallet *Wallet) *Sender {
	return &Sender{client: client, wallet: wallet}
}

// Send broadcasts a transaction to the given address carrying the given
// value and calldata, and returns its hash without waiting for it to be
// mined.
func (s *Sender) Send(
	ctx context.Context,
	to common.Address, value *big.Int, data []byte,
) (common.Hash, error) {
	from := s.wallet.Address()
	if value == nil {
		value = new(big.Int)
	}

	nonce, err := s.client.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("fetch nonce: %w", err)
	}
	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("fetch gas price: %w", err)
	}
	gasLimit, err := s.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("estimate gas: %w", err)
	}
	chainID, err := s.getChainID(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("fetch chain id: %w", err)
	}

	tx := types.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)
	signedTx, err := s.wallet.SignTx(tx, chainID)
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign transaction: %w", err)
	}
	if err := s.client.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, fmt.Errorf("broadcast transaction: %w", err)
	}

	return signedTx.Hash(), nil
}

// chain id is immutable for the lifetime of the connection
func (s *Sender) getChainID(ctx context.Context) (*big.Int, error) {
	s.chainIDMtx.Lock()
	defer s.chainIDMtx.Unlock()

	if s.chainID != nil {
		return s.chainID, nil
	}
	chainID, err := s.client.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	s.chainID = chainID
	return chainID, nil
}
