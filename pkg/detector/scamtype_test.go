package detector

import (
	"testing"

	"safetalk-hive-be/pkg/store"
)

func TestGuessScamType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "upi handle",
			text: "Pay to 9999@upi now",
			want: store.ScamTypeUPIFraud,
		},
		{
			name: "bank otp",
			text: "Share your OTP to unlock your account",
			want: store.ScamTypeBankFraud,
		},
		{
			name: "lottery prize",
			text: "Congratulations winner, you got a prize",
			want: store.ScamTypeLottery,
		},
		{
			name: "phishing link",
			text: "click here to claim: www.totally-legit.example",
			want: store.ScamTypePhishing,
		},
		{
			name: "upi wins over bank when both present",
			text: "Transfer from your bank account to fraud@upi",
			want: store.ScamTypeUPIFraud,
		},
		{
			name: "bank wins over lottery when both present",
			text: "Your lottery winnings await, just confirm your bank account",
			want: store.ScamTypeBankFraud,
		},
		{
			name: "no keyword falls through",
			text: "hello there",
			want: store.ScamTypeDefault,
		},
		{
			name: "case insensitive",
			text: "YOUR BANK ACCOUNT IS BLOCKED",
			want: store.ScamTypeBankFraud,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GuessScamType(tt.text); got != tt.want {
				t.Errorf("GuessScamType(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
