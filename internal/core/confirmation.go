package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/chainpilot-ai/chainpilot/internal/intent"
	"github.com/chainpilot-ai/chainpilot/internal/wallet"
	"github.com/chainpilot-ai/chainpilot/internal/web3"
)

type ConfirmState string

const (
	StateClosed     ConfirmState = "closed"
	StateOpen       ConfirmState = "open"
	StateSubmitting ConfirmState = "submitting"
	StateBroadcast  ConfirmState = "broadcast"
)

var (
	ErrNotOpen    = errors.New("no transaction awaiting confirmation")
	ErrSubmitting = errors.New("a signing request is already in flight")
)

// ConfirmationFlow gates the hand-off from a detected transfer intent to the
// wallet's signing flow: closed -> open -> submitting -> broadcast, with
// cancel from open back to closed. A failed signing request closes the flow
// rather than reopening it, so a stale prompt never lingers.
type ConfirmationFlow struct {
	mu      sync.Mutex
	state   ConfirmState
	pending *intent.Record
	txHash  string

	session *wallet.Session
	notify  func(content string)
}

func newConfirmationFlow(session *wallet.Session, notify func(string)) *ConfirmationFlow {
	return &ConfirmationFlow{
		state:   StateClosed,
		session: session,
		notify:  notify,
	}
}

// Open presents a transfer intent for confirmation. Non-transfer records are
// ignored; the flow is only ever entered with a transfer above the threshold.
func (f *ConfirmationFlow) Open(rec *intent.Record) {
	if rec == nil || rec.Action != intent.ActionTransfer {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		return
	}
	f.state = StateOpen
	f.pending = rec
	f.txHash = ""
}

// Cancel discards the pending intent with no side effect.
func (f *ConfirmationFlow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting {
		return
	}
	f.state = StateClosed
	f.pending = nil
	f.txHash = ""
}

// Confirm delegates the pending transfer to the wallet session's signer.
// On success the flow records the transaction hash and reports it to the
// conversation; on failure it closes.
func (f *ConfirmationFlow) Confirm(ctx context.Context) (string, error) {
	f.mu.Lock()
	switch f.state {
	case StateSubmitting:
		f.mu.Unlock()
		return "", ErrSubmitting
	case StateOpen:
	default:
		f.mu.Unlock()
		return "", ErrNotOpen
	}
	rec := f.pending
	f.state = StateSubmitting
	f.mu.Unlock()

	amount := rec.Amount
	if amount == "" {
		amount = "0"
	}
	valueWei, err := web3.ParseEther(amount)
	if err != nil {
		f.fail()
		return "", fmt.Errorf("cannot convert amount to wei: %w", err)
	}

	hash, err := f.session.Send(ctx, rec.ToAddress, valueWei)
	if err != nil {
		f.fail()
		return "", err
	}

	f.mu.Lock()
	f.state = StateBroadcast
	f.txHash = hash
	f.mu.Unlock()

	log.Printf("Transaction broadcast: %s -> %s", web3.ShortenAddress(rec.ToAddress), hash)
	if f.notify != nil {
		f.notify("TX BROADCAST: " + hash)
	}
	return hash, nil
}

func (f *ConfirmationFlow) fail() {
	f.mu.Lock()
	f.state = StateClosed
	f.pending = nil
	f.txHash = ""
	f.mu.Unlock()
}

func (f *ConfirmationFlow) State() ConfirmState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Pending returns the intent awaiting confirmation, nil when closed.
func (f *ConfirmationFlow) Pending() *intent.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

// TxHash returns the broadcast transaction id, empty until broadcast.
func (f *ConfirmationFlow) TxHash() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.txHash
}
