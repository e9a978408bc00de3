package intent

import (
	"math"

	"github.com/chainpilot-ai/chainpilot/internal/web3"
)

// Flags appended by transfer re-validation.
const (
	FlagInvalidRecipient = "Invalid recipient address"
	FlagInvalidAmount    = "Invalid amount"
)

// maxDowngradedConfidence is the ceiling applied when the oracle's transfer
// output fails re-validation. The cap is idempotent: multiple failures still
// leave exactly this value, they do not stack.
const maxDowngradedConfidence = 0.7

// ValidateTransfer re-checks a detected transfer against the address and
// amount validators and downgrades the record in place. Non-transfer and
// undetected intents pass through untouched.
func ValidateTransfer(rec *Record) {
	if rec == nil || !rec.IntentDetected || rec.Action != ActionTransfer {
		return
	}
	if !web3.IsValidAddress(rec.ToAddress) {
		rec.RiskFlags = append(rec.RiskFlags, FlagInvalidRecipient)
		rec.Confidence = math.Min(rec.Confidence, maxDowngradedConfidence)
	}
	if rec.Amount == "" || !web3.IsValidAmount(rec.Amount) {
		rec.RiskFlags = append(rec.RiskFlags, FlagInvalidAmount)
		rec.Confidence = math.Min(rec.Confidence, maxDowngradedConfidence)
	}
}
