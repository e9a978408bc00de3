// Package wallet models the external signing capability and the per-tab
// session state layered on top of it.
package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type EventType string

const (
	// EventAccountsChanged carries the provider's current account list.
	// An empty list means the user revoked access.
	EventAccountsChanged EventType = "accountsChanged"
	// EventChainChanged fires when the user switches networks.
	EventChainChanged EventType = "chainChanged"
)

type Event struct {
	Type     EventType
	Accounts []string
	ChainID  string
}

// Provider is the injected wallet: an opaque external signer. Calls may
// block until the user responds to the wallet's own UI; a dismissed prompt
// surfaces as an error.
type Provider interface {
	RequestAccounts(ctx context.Context) ([]string, error)
	ChainID(ctx context.Context) (string, error)
	SendTransaction(ctx context.Context, to common.Address, value *big.Int) (common.Hash, error)
	Events() <-chan Event
}
