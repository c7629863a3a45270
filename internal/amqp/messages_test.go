package amqp

import (
	"testing"
	"time"

	"github.com/Vivekgpta/Tracker/internal/core"
)

func TestAlertMessageRoundTrip(t *testing.T) {
	msg := NewAlertMessage("Main Wallet", core.Money{Cents: 100000}, "## Spending check\nSlow down on Food.")

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := AlertMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.WalletName != msg.WalletName {
		t.Fatalf("wallet name = %q, want %q", got.WalletName, msg.WalletName)
	}
	if got.Limit != msg.Limit {
		t.Fatalf("limit = %v, want %v", got.Limit, msg.Limit)
	}
	if got.Insight != msg.Insight {
		t.Fatalf("insight mismatch")
	}
	if got.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}
}

func TestNewAlertMessageStampsTime(t *testing.T) {
	before := time.Now().Add(-time.Second)
	msg := NewAlertMessage("A", core.Money{Cents: 1}, "x")
	if msg.Timestamp.Before(before) {
		t.Fatalf("timestamp too old: %v", msg.Timestamp)
	}
}

func TestAlertMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := AlertMessageFromJSON([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
