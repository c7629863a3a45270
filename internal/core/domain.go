package core

import (
	"errors"
	"strings"
	"time"
)

// Categories accepted by the UI. Storage takes free text, but every client
// surface offers exactly this set.
var Categories = []string{
	"Food",
	"Transport",
	"Shopping",
	"Bills",
	"Entertainment",
	"Health",
	"Other",
}

// DefaultCurrency is assigned to wallets created without an explicit currency.
const DefaultCurrency = "USD"

type (
	Date struct {
		time.Time
	}

	// Money is an amount in cents. Balances are signed; expense amounts
	// must be strictly positive.
	Money struct {
		Cents int64
	}

	Wallet struct {
		ID           int64
		Name         string
		Balance      Money
		MonthlyLimit Money
		Currency     string
	}

	Expense struct {
		ID          int64
		WalletID    int64
		Amount      Money
		Category    string
		Description string
		Date        Date
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrEmptyName       = errors.New("empty wallet name")
	ErrEmptyCategory   = errors.New("empty category")
	ErrNegativeLimit   = errors.New("negative monthly limit")
	ErrInvalidWalletID = errors.New("invalid wallet id")
)

const dateLayout = "2006-01-02"

// ParseDate parses an ISO calendar date (YYYY-MM-DD, no time of day).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MarshalJSON emits the date as a plain "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (w Wallet) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return ErrEmptyName
	}
	if len(w.Name) > 100 {
		return errors.New("wallet name too long (max 100 characters)")
	}
	if w.MonthlyLimit.Cents < 0 {
		return ErrNegativeLimit
	}
	return nil
}

func (e Expense) Validate() error {
	if e.WalletID <= 0 {
		return ErrInvalidWalletID
	}
	if e.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return e.Date.Validate()
}
