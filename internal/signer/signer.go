// Package signer produces the cryptographic authorization a player
// presents to the vault contract to claim a withdrawal on-chain. It is
// purely computational: no storage, no ledger access.
package signer

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidWallet is raised for malformed wallet addresses.
var ErrInvalidWallet = errors.New("invalid wallet address")

// Signer holds the vault signing key and the destination contract.
type Signer struct {
	key   *ecdsa.PrivateKey
	vault common.Address
}

// New parses the hex private key (with or without 0x prefix) and the vault
// contract address.
func New(privateKeyHex, vaultHex string) (*Signer, error) {
	if len(privateKeyHex) >= 2 && privateKeyHex[:2] == "0x" {
		privateKeyHex = privateKeyHex[2:]
	}

	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("parse signer key: %w", err)
	}

	if !common.IsHexAddress(vaultHex) {
		return nil, fmt.Errorf("parse vault address %q: not a hex address", vaultHex)
	}

	return &Signer{
		key:   key,
		vault: common.HexToAddress(vaultHex),
	}, nil
}

// Vault returns the destination contract address in checksum form.
func (s *Signer) Vault() string {
	return s.vault.Hex()
}

// Address returns the signer's own address, i.e. the address the vault
// contract must trust.
func (s *Signer) Address() string {
	return crypto.PubkeyToAddress(s.key.PublicKey).Hex()
}

// SignClaim signs keccak256(wallet || amountWei || nonce || vault), the
// tightly packed form the contract reconstructs, wrapped in the standard
// Ethereum signed-message prefix. Returns the 65-byte signature hex
// encoded, with the recovery byte in its 27/28 form.
func (s *Signer) SignClaim(wallet string, amountWei *big.Int, nonce int64) (string, error) {
	if !common.IsHexAddress(wallet) {
		return "", fmt.Errorf("%w: %q", ErrInvalidWallet, wallet)
	}

	packed := make([]byte, 0, 20+32+32+20)
	packed = append(packed, common.HexToAddress(wallet).Bytes()...)
	packed = append(packed, common.LeftPadBytes(amountWei.Bytes(), 32)...)
	packed = append(packed, common.LeftPadBytes(big.NewInt(nonce).Bytes(), 32)...)
	packed = append(packed, s.vault.Bytes()...)

	digest := crypto.Keccak256(packed)
	prefixed := crypto.Keccak256(
		[]byte("\x19Ethereum Signed Message:\n32"),
		digest,
	)

	sig, err := crypto.Sign(prefixed, s.key)
	if err != nil {
		return "", fmt.Errorf("sign claim: %w", err)
	}

	// Contracts expect v in {27, 28}.
	sig[64] += 27

	return hexutil.Encode(sig), nil
}
