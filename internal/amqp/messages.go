package amqp

import (
	"encoding/json"
	"time"

	"github.com/Vivekgpta/Tracker/internal/core"
)

// AlertMessage carries one monthly-limit breach notification to the alert
// worker. The worker owns formatting and "delivery" (a log line, no real
// email is ever sent).
type AlertMessage struct {
	WalletName string     `json:"wallet_name"`
	Limit      core.Money `json:"limit"`
	Insight    string     `json:"insight"`
	Timestamp  time.Time  `json:"timestamp"`
}

// NewAlertMessage creates an alert message stamped with the current time.
func NewAlertMessage(walletName string, limit core.Money, insight string) *AlertMessage {
	return &AlertMessage{
		WalletName: walletName,
		Limit:      limit,
		Insight:    insight,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AlertMessageFromJSON creates a message from JSON bytes.
func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
