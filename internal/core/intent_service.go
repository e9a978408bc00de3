// Package core wires the oracle, the validators and the wallet session into
// the service-level flows: the parse-intent relay, the conversation
// controller and the transaction confirmation flow.
package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/chainpilot-ai/chainpilot/internal/intent"
	"github.com/chainpilot-ai/chainpilot/internal/oracle"
)

// ErrEmptyMessage rejects requests before they reach the oracle.
var ErrEmptyMessage = errors.New("missing user message")

// IntentService is the relay behind POST /api/intent/parse-intent: one oracle
// call, then re-validation of any transfer output.
type IntentService struct {
	oracle oracle.Oracle
}

func NewIntentService(o oracle.Oracle) *IntentService {
	return &IntentService{oracle: o}
}

// Parse forwards the user's message to the oracle and re-validates the
// result. An invalid wallet address does not reject the request: it is
// context for the oracle, and only transfer outputs are re-checked.
func (s *IntentService) Parse(ctx context.Context, userMessage, walletAddress string) (*intent.Record, error) {
	if strings.TrimSpace(userMessage) == "" {
		return nil, ErrEmptyMessage
	}

	log.Printf("Processing intent for: %s...", truncate(userMessage, 50))

	rec, err := s.oracle.ParseIntent(ctx, userMessage, walletAddress)
	if err != nil {
		return nil, fmt.Errorf("oracle call failed: %w", err)
	}

	intent.ValidateTransfer(rec)
	return rec, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
