// Package intent defines the structured record exchanged between the oracle,
// the relay endpoint and the confirmation flow.
package intent

type Action string

const (
	ActionTransfer    Action = "transfer"
	ActionBalance     Action = "balance"
	ActionExplanation Action = "explanation"
	ActionUnknown     Action = "unknown"
)

// Chains and assets the oracle is allowed to emit. Anything else is passed
// through untouched; the closed sets live in the system prompt, these are for
// callers that want to render or filter.
var (
	KnownChains = []string{"ethereum", "polygon", "arbitrum", "optimism", "base"}
	KnownAssets = []string{"ETH", "USDC", "USDT", "DAI"}
)

// Record is the wire shape returned by the parse-intent endpoint. Field names
// match the JSON contract the oracle is prompted to produce.
type Record struct {
	IntentDetected bool     `json:"intent_detected"`
	Action         Action   `json:"action"`
	Chain          string   `json:"chain,omitempty"`
	Asset          string   `json:"asset,omitempty"`
	Amount         string   `json:"amount,omitempty"`
	ToAddress      string   `json:"to_address,omitempty"`
	Confidence     float64  `json:"confidence"`
	Summary        string   `json:"human_readable_summary"`
	RiskFlags      []string `json:"risk_flags"`
	Error          string   `json:"error,omitempty"`
}

// Degraded is the record every oracle-side failure collapses to: nothing
// detected, zero confidence, no action fields.
func Degraded(message string) *Record {
	return &Record{
		IntentDetected: false,
		Action:         ActionUnknown,
		Confidence:     0,
		RiskFlags:      []string{},
		Error:          message,
	}
}
