package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/otcdex-network/otcdex-router/pkg/onchain"
)

const testPrivateKey = "0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"

// tradingTime is a Tuesday, 10:00 New York time, well inside the window.
var tradingTime = mustParseInLocation("2026-06-02 10:00")

func mustParseInLocation(value string) time.Time {
	location, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", value, location)
	if err != nil {
		panic(err)
	}
	return t
}

// mockChainClient implements onchain.ChainClient with programmable
// responses. Call results are consumed in FIFO order.
type mockChainClient struct {
	mtx sync.Mutex

	callResults [][]byte
	callErrs    []error
	receipt     *types.Receipt
	sentTxs     []*types.Transaction
}

func encodeUint256(value *big.Int) []byte {
	return common.LeftPadBytes(value.Bytes(), 32)
}

func successReceipt() *types.Receipt {
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(100),
	}
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
	return 3, nil
}

func (m *mockChainClient) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(2_000_000_000), nil
}

func (m *mockChainClient) EstimateGas(
	context.Context, ethereum.CallMsg,
) (uint64, error) {
	return 60_000, nil
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
	context.Context, ethereum.CallMsg, *big.Int,
) ([]byte, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if len(m.callResults) == 0 {
		return encodeUint256(big.NewInt(0)), nil
	}
	result, err := m.callResults[0], m.callErrs[0]
	m.callResults = m.callResults[1:]
	m.callErrs = m.callErrs[1:]
	return result, err
}

// venueServer fakes the brokerage API, auth handshake included. Route
// handlers can be overridden per test; requests are recorded in order.
type venueServer struct {
	*httptest.Server

	mtx      sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []string
}

func newVenueServer() *venueServer {
	srv := &venueServer{routes: map[string]http.HandlerFunc{}}

	srv.routes["/auth/challenge"] = func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"challenge":"prove-it"}`)
	}
	srv.routes["/auth/login"] = func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"token":"test-token"}`)
	}
	srv.routes["/account/status"] = func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"status":"active"}`)
	}
	srv.routes["/account/funds"] = func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"buyingPower":"100000","balances":{}}`)
	}
	srv.routes["/quotes"] = func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"symbol":"AAPL","bid":"99","ask":"100"}`)
	}
	srv.routes["/escrow-address"] = func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(escrowAddressReply{
			Address: "0x5555555555555555555555555555555555555555",
			Network: r.URL.Query().Get("network"),
		})
	}
	srv.routes["/orders"] = func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"orderId":"ord-1","status":"accepted"}`)
	}

	srv.Server = httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			srv.mtx.Lock()
			srv.requests = append(srv.requests, r.URL.Path)
			handler, ok := srv.routes[r.URL.Path]
			srv.mtx.Unlock()
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			handler(w, r)
		},
	))
	return srv
}

func (s *venueServer) handle(path string, handler http.HandlerFunc) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.routes[path] = handler
}

func (s *venueServer) requestedPaths() []string {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return append([]string{}, s.requests...)
}

func newAuthenticatedClient(t *testing.T, srv *venueServer) *Client {
	wallet, err := onchain.NewWallet(testPrivateKey)
	require.NoError(t, err)
	client, err := NewClient(srv.URL, wallet)
	require.NoError(t, err)
	require.NoError(t, client.Handshake(context.Background()))
	return client
}

func newTestExecutor(
	t *testing.T, srv *venueServer, mock *mockChainClient,
) *Executor {
	wallet, err := onchain.NewWallet(testPrivateKey)
	require.NoError(t, err)
	window, err := NewEquityTradingWindow()
	require.NoError(t, err)

	executor := NewExecutor(
		newAuthenticatedClient(t, srv), mock, onchain.NewERC20(mock), wallet,
		window,
		onchain.WaitOptions{
			Timeout:      100 * time.Millisecond,
			PollInterval: time.Millisecond,
		},
		"sepolia", "polygon",
	)
	executor.now = func() time.Time { return tradingTime }
	return executor
}
