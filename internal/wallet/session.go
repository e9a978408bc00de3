package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/chainpilot-ai/chainpilot/internal/web3"
)

var (
	ErrNoProvider   = errors.New("wallet provider not available")
	ErrNoAccount    = errors.New("no account found")
	ErrNotConnected = errors.New("wallet not connected")
)

// Session is the per-tab wallet state: connected address, chain id and the
// provider handle. It is created disconnected; Connect populates it,
// Disconnect resets it unconditionally. Disconnect never revokes the
// provider's own permission grant, that belongs to the wallet.
type Session struct {
	mu        sync.Mutex
	provider  Provider
	address   string
	chainID   string
	connected bool
	lastErr   string

	// reload is invoked after a chain change. Cross-chain state cannot be
	// safely patched in place, so the session resets and asks the host to
	// start over.
	reload func()
}

func NewSession(provider Provider, reload func()) *Session {
	return &Session{provider: provider, reload: reload}
}

// Connect requests account access. On any failure the session records the
// error and stays disconnected.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider == nil {
		s.lastErr = ErrNoProvider.Error()
		return ErrNoProvider
	}

	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		s.lastErr = err.Error()
		return fmt.Errorf("account request failed: %w", err)
	}
	if len(accounts) == 0 {
		s.lastErr = ErrNoAccount.Error()
		return ErrNoAccount
	}

	chainID, err := s.provider.ChainID(ctx)
	if err != nil {
		s.lastErr = err.Error()
		return fmt.Errorf("chain id lookup failed: %w", err)
	}

	s.address = common.HexToAddress(accounts[0]).Hex()
	s.chainID = chainID
	s.connected = true
	s.lastErr = ""
	return nil
}

// Disconnect resets to the initial null state.
func (s *Session) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Session) reset() {
	s.address = ""
	s.chainID = ""
	s.connected = false
	s.lastErr = ""
}

// Watch consumes provider notifications until ctx is done or the event
// stream closes. Run it in its own goroutine for the lifetime of the tab.
func (s *Session) Watch(ctx context.Context) {
	if s.provider == nil {
		return
	}
	events := s.provider.Events()
	if events == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.handleEvent(ev)
		}
	}
}

func (s *Session) handleEvent(ev Event) {
	switch ev.Type {
	case EventAccountsChanged:
		s.mu.Lock()
		if len(ev.Accounts) == 0 {
			log.Println("Wallet reported zero accounts, disconnecting session")
			s.reset()
			s.mu.Unlock()
			return
		}
		s.address = common.HexToAddress(ev.Accounts[0]).Hex()
		s.connected = true
		s.mu.Unlock()
	case EventChainChanged:
		s.mu.Lock()
		s.reset()
		reload := s.reload
		s.mu.Unlock()
		log.Printf("Chain changed to %s, forcing full resync", ev.ChainID)
		if reload != nil {
			reload()
		}
	}
}

// Send relays a {to, value} transfer to the provider's signing flow and
// returns the transaction hash.
func (s *Session) Send(ctx context.Context, to string, valueWei *big.Int) (string, error) {
	s.mu.Lock()
	provider, connected := s.provider, s.connected
	s.mu.Unlock()

	if !connected {
		return "", ErrNotConnected
	}
	if !web3.IsValidAddress(to) {
		return "", fmt.Errorf("invalid recipient address %q", to)
	}

	hash, err := provider.SendTransaction(ctx, common.HexToAddress(to), valueWei)
	if err != nil {
		return "", fmt.Errorf("transaction rejected: %w", err)
	}
	return hash.Hex(), nil
}

func (s *Session) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address
}

func (s *Session) ChainID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chainID
}

func (s *Session) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// LastError returns the most recent connection failure, empty when none.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
