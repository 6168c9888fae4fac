package onchain

import (
	"context"
	"math/big"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// mockChainClient implements ChainClient with programmable responses.
type mockChainClient struct {
	mtx sync.Mutex

	callResults   [][]byte
	callErr       error
	callCount     int
	receipt       *types.Receipt
	receiptErr    error
	receiptAfter  int
	receiptLookup int
	sentTxs       []*types.Transaction
}

func (m *mockChainClient) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(11155111), nil
}

func (m *mockChainClient) PendingNonceAt(
	context.Context, common.Address,
) (uint64, error) {
	return 7, nil
}

func (m *mockChainClient) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(2_000_000_000), nil
}

func (m *mockChainClient) EstimateGas(
	context.Context, ethereum.CallMsg,
) (uint64, error) {
	return 90_000, nil
}

func (m *mockChainClient) SendTransaction(
	_ context.Context, tx *types.Transaction,
) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.sentTxs = append(m.sentTxs, tx)
	return nil
}

func (m *mockChainClient) TransactionReceipt(
	context.Context, common.Hash,
) (*types.Receipt, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.receiptLookup++
	if m.receiptLookup <= m.receiptAfter {
		return nil, ethereum.NotFound
	}
	if m.receiptErr != nil {
		return nil, m.receiptErr
	}
	return m.receipt, nil
}

func (m *mockChainClient) CallContract(
	context.Context, ethereum.CallMsg, *big.Int,
) ([]byte, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if m.callErr != nil {
		return nil, m.callErr
	}
	res := m.callResults[m.callCount%len(m.callResults)]
	m.callCount++
	return res, nil
}
