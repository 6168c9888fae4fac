package onchain

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// ErrNullPrivateKey ...
	ErrNullPrivateKey = errors.New("private key must not be null")
	// ErrInvalidPrivateKey ...
	ErrInvalidPrivateKey = errors.New("private key must be a valid 32-byte hex string")
)

// Wallet holds the secp256k1 key identifying the trader on-chain and
// towards both venues.
type Wallet struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewWallet derives a wallet from a hex-encoded private key, with or
// without the 0x prefix.
func NewWallet(privateKeyHex string) (*Wallet, error) {
	if privateKeyHex == "" {
		return nil, ErrNullPrivateKey
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, ErrInvalidPrivateKey
	}
	return &Wallet{
		privateKey: key,
		address:    crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Address ...
func (w *Wallet) Address() common.Address {
	return w.address
}

// SignTx signs the given transaction for the given chain.
func (w *Wallet) SignTx(
	tx *types.Transaction, chainID *big.Int,
) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), w.privateKey)
}

// SignMessage signs the payload with the EIP-191 personal-sign scheme, the
// format both venues expect during the authentication handshake.
func (w *Wallet) SignMessage(msg []byte) ([]byte, error) {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(msg), msg)
	sig, err := crypto.Sign(crypto.Keccak256([]byte(prefixed)), w.privateKey)
	if err != nil {
		return nil, err
	}
	// shift the recovery id to the 27/28 convention expected by verifiers
	sig[64] += 27
	return sig, nil
}
