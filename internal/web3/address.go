// Package web3 holds the pure address and amount helpers shared by the
// intent validator, the wallet session and the confirmation flow.
package web3

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

// IsValidAddress reports whether s is a well-formed 0x-prefixed Ethereum
// address. All-lowercase and all-uppercase hex are accepted as-is; mixed-case
// addresses must carry a valid EIP-55 checksum.
func IsValidAddress(s string) bool {
	if !strings.HasPrefix(s, "0x") || !common.IsHexAddress(s) {
		return false
	}
	hex := s[2:]
	if hex == strings.ToLower(hex) || hex == strings.ToUpper(hex) {
		return true
	}
	mixed, err := common.NewMixedcaseAddressFromString(s)
	if err != nil {
		return false
	}
	return mixed.ValidChecksum()
}

// IsValidAmount reports whether s parses as a finite, non-negative decimal.
func IsValidAmount(s string) bool {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= 0
}

// ParseEther converts a decimal ether amount ("0.05") to wei. Amounts with
// more than 18 fractional digits cannot be represented on chain and fail.
func ParseEther(s string) (*big.Int, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid decimal amount %q", s)
	}
	if r.Sign() < 0 {
		return nil, fmt.Errorf("negative amount %q", s)
	}
	wei := new(big.Rat).Mul(r, new(big.Rat).SetInt64(params.Ether))
	if !wei.IsInt() {
		return nil, fmt.Errorf("amount %q is below wei precision", s)
	}
	return new(big.Int).Set(wei.Num()), nil
}

// ShortenAddress renders an address in the 0x1234...abcd display form.
func ShortenAddress(address string) string {
	if len(address) < 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
