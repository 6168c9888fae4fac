package marketmaker

import (
	"context"
	"math/big"
	"sync"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// mockChainClient implements onchain.ChainClient with programmable
// responses. Call results are consumed in FIFO order.
type mockChainClient struct {
	mtx sync.Mutex

	callResults [][]byte
	callErrs    []error
	callMsgs    []ethereum.CallMsg
	estimateErr error
	receipt     *types.Receipt
	sentTxs     []*types.Transaction
}

func successReceipt() *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(100),
	}
}

func failedReceipt() *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusFailed,
		BlockNumber: big.NewInt(100),
	}
}

func encodeUint256(value *big.Int) []byte {
	return common.LeftPadBytes(value.Bytes(), 32)
}

func (m *mockChainClient) enqueueCall(result []byte, err error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.callResults = append(m.callResults, result)
	m.callErrs = append(m.callErrs, err)
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
	if m.estimateErr != nil {
		return 0, m.estimateErr
	}
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
	if m.receipt == nil {
		return nil, ethereum.NotFound
	}
	return m.receipt, nil
}

func (m *mockChainClient) CallContract(
	_ context.Context, msg ethereum.CallMsg, _ *big.Int,
) ([]byte, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.callMsgs = append(m.callMsgs, msg)
	if len(m.callResults) == 0 {
		return encodeUint256(big.NewInt(0)), nil
	}
	result, err := m.callResults[0], m.callErrs[0]
	m.callResults = m.callResults[1:]
	m.callErrs = m.callErrs[1:]
	return result, err
}
