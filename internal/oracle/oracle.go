// Package oracle adapts external text-generation services into intent
// records. The oracle is untrusted and non-deterministic: every provider
// failure, from a network error to malformed JSON, collapses to a degraded
// record so the caller never sees a fault from this boundary.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chainpilot-ai/chainpilot/internal/intent"
)

// SystemPrompt is sent verbatim to the model on every request.
// Focus: security, JSON strictness, no execution.
const SystemPrompt = `
You are an AI transaction assistant specializing in parsing user intent for blockchain actions.
Your role is SOLELY to interpret the user's natural language request and convert it into a structured JSON object.

CORE RULES:
1. You DO NOT execute transactions. You only output JSON.
2. You DO NOT sign transactions.
3. You NEVER ask for private keys or secrets.
4. If a request is ambiguous or high-risk, flag it.
5. If the user asks to bypass confirmation, REFUSE by setting 'intent_detected' to false and providing a clarification message.

OUTPUT FORMAT (JSON ONLY):
{
  "intent_detected": boolean,
  "action": "transfer" | "balance" | "explanation" | "unknown",
  "chain": "ethereum" | "polygon" | "arbitrum" | "optimism" | "base" | null,
  "asset": "ETH" | "USDC" | "USDT" | "DAI" | null,
  "amount": string | null, // numeric string, e.g., "0.05"
  "to_address": string | null, // 0x... address if detected
  "confidence": number, // 0.0 to 1.0
  "human_readable_summary": string, // "You are about to send 0.05 ETH to 0x123..."
  "risk_flags": string[] // ["Large amount", "New address", etc.]
}

SCENARIOS:
- "Send 0.05 ETH to 0xABC..." -> valid transfer.
- "Send money to Bob" -> missing address/amount -> confidence < 0.85, ask for details.
- "Check my balance" -> action: "balance".
- "What is a blockchain?" -> action: "explanation".
- "Sign this transaction for me" -> intent_detected: false, clarity: "I cannot sign transactions."

Do not include markdown formatting like ` + "```json" + `. Return raw JSON.
`

// degradedMessage is the user-facing error on any oracle-side failure.
const degradedMessage = "Failed to process intent."

// Oracle is the text-to-intent capability. Implementations return a degraded
// record (and a nil error) for any provider-side failure; a non-nil error is
// reserved for faults outside the oracle contract, such as a cancelled
// context.
type Oracle interface {
	ParseIntent(ctx context.Context, userMessage, walletAddress string) (*intent.Record, error)
}

// ModelLister is implemented by providers that can enumerate the models their
// backing service offers.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// userTurn composes the single user message sent alongside the system prompt.
func userTurn(userMessage, walletAddress string) string {
	return fmt.Sprintf("User Wallet: %s\nMessage: %s", walletAddress, userMessage)
}

// stripFences removes a markdown code fence wrapping, which models emit
// despite being told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// decodeIntent parses a model reply into a record, tolerating code fencing
// and clamping confidence into [0,1]. Risk flags are normalized to an empty
// slice so the wire shape never carries null.
func decodeIntent(raw string) (*intent.Record, error) {
	var rec intent.Record
	if err := json.Unmarshal([]byte(stripFences(raw)), &rec); err != nil {
		return nil, fmt.Errorf("model reply is not valid intent JSON: %w", err)
	}
	if rec.RiskFlags == nil {
		rec.RiskFlags = []string{}
	}
	if rec.Action == "" {
		rec.Action = intent.ActionUnknown
	}
	if rec.Confidence < 0 {
		rec.Confidence = 0
	}
	if rec.Confidence > 1 {
		rec.Confidence = 1
	}
	return &rec, nil
}
