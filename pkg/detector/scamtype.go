package detector

import (
	"strings"

	"safetalk-hive-be/pkg/store"
)

type scamTypeRule struct {
	category string
	match    func(lower string) bool
}

// Ordered: first match wins. A message mentioning both a UPI handle and a
// bank is classified as upi_fraud.
var scamTypeRules = []scamTypeRule{
	{store.ScamTypeUPIFraud, func(s string) bool { return containsAny(s, "upi", "@") }},
	{store.ScamTypeBankFraud, func(s string) bool { return containsAny(s, "bank", "account", "otp") }},
	{store.ScamTypeLottery, func(s string) bool { return containsAny(s, "lottery", "prize", "winner") }},
	{store.ScamTypePhishing, func(s string) bool { return containsAny(s, "click", "link", "http") }},
}

// GuessScamType assigns a scam category from surface keywords. It runs once,
// at escalation time, and the result is advisory context for persona
// selection — never control flow.
func GuessScamType(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range scamTypeRules {
		if rule.match(lower) {
			return rule.category
		}
	}
	return store.ScamTypeDefault
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
