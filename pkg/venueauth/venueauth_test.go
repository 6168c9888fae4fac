package venueauth

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otcdex-network/otcdex-router/pkg/onchain"
)

const testPrivateKey = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"

func newAuthServer(t *testing.T) *httptest.Server {
	var issuedChallenge string

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/challenge", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		issuedChallenge = "challenge-for-" + req["address"]
		json.NewEncoder(w).Encode(map[string]string{"challenge": issuedChallenge})
	})
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["challenge"] != issuedChallenge {
			http.Error(w, "unknown challenge", http.StatusUnauthorized)
			return
		}
		// challenge is single-use
		issuedChallenge = ""

		sig, err := hex.DecodeString(strings.TrimPrefix(req["signature"], "0x"))
		require.NoError(t, err)
		require.Len(t, sig, 65)
		sig[64] -= 27

		msg := req["challenge"]
		prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(msg), msg)
		pubkey, err := crypto.SigToPub(crypto.Keccak256([]byte(prefixed)), sig)
		require.NoError(t, err)
		if crypto.PubkeyToAddress(*pubkey).Hex() != req["address"] {
			http.Error(w, "signature mismatch", http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	})
	return httptest.NewServer(mux)
}

func TestHandshake(t *testing.T) {
	server := newAuthServer(t)
	defer server.Close()

	wallet, err := onchain.NewWallet(testPrivateKey)
	require.NoError(t, err)

	client, err := NewClient(server.URL, wallet)
	require.NoError(t, err)

	_, err = client.AuthHeader()
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	require.NoError(t, client.Handshake(context.Background()))

	header, err := client.AuthHeader()
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", header["Authorization"])
}

func TestNewClientNullSigner(t *testing.T) {
	_, err := NewClient("http://localhost", nil)
	assert.ErrorIs(t, err, ErrNullSigner)
}
