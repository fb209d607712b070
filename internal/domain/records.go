// Package domain holds the record types shared between assistants, the
// dialogue engine, and the stores: the durable projections of session state
// (leads, orders, wellness entries, fraud cases) and the session log shapes.
package domain

import "time"

// Lead statuses written by the sales assistant.
const (
	LeadInProgress = "in_progress"
	LeadCompleted  = "completed"
)

// Fraud case statuses. A case starts out pending; the other three are
// terminal outcomes and the only values a finalize tool may write.
const (
	CasePending            = "pending"
	CaseConfirmedSafe      = "confirmed_safe"
	CaseConfirmedFraud     = "confirmed_fraud"
	CaseVerificationFailed = "verification_failed"
)

// CoffeeOrder is the completed drink order the barista assistant saves once
// every required slot is filled.
type CoffeeOrder struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	DrinkType string    `json:"drinkType"`
	Size      string    `json:"size"`
	Milk      string    `json:"milk"`
	Extras    []string  `json:"extras"`
	Timestamp time.Time `json:"timestamp"`
}

// WellnessEntry is one daily check-in. Energy stays optional; a check-in
// without it is still valid.
type WellnessEntry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Mood       string    `json:"mood"`
	Objectives string    `json:"objectives"`
	Energy     string    `json:"energy,omitempty"`
}

// Lead is the sales assistant's durable record. The id is assigned on the
// first field capture and reused for every later write, so a conversation
// updates one lead rather than leaving a trail of duplicates.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	UseCase   string    `json:"use_case"`
	TeamSize  string    `json:"team_size"`
	Timeline  string    `json:"timeline"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderLine is one finalized cart line inside a placed order.
type OrderLine struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
	Notes     string  `json:"notes,omitempty"`
	Category  string  `json:"category,omitempty"`
}

// Order is the grocer assistant's placed order.
type Order struct {
	ID              string      `json:"id"`
	CustomerName    string      `json:"customer_name"`
	CustomerAddress string      `json:"customer_address"`
	Items           []OrderLine `json:"items"`
	Total           float64     `json:"total"`
	Currency        string      `json:"currency"`
	PlacedAt        time.Time   `json:"placed_at"`
}

// FraudCase is one suspicious-transaction case from the fraud desk's case
// table. SecurityAnswer never leaves the store except for comparison;
// MaskedCard is already masked at rest and only its last four digits are
// ever spoken.
type FraudCase struct {
	ID               int64   `json:"id"`
	Username         string  `json:"username"`
	CustomerName     string  `json:"customer_name"`
	SecurityID       string  `json:"security_id"`
	MaskedCard       string  `json:"masked_card"`
	Amount           float64 `json:"amount"`
	Merchant         string  `json:"merchant"`
	Location         string  `json:"location"`
	Timestamp        string  `json:"timestamp"`
	SecurityQuestion string  `json:"security_question"`
	SecurityAnswer   string  `json:"security_answer"`
	Status           string  `json:"status"`
	OutcomeNote      string  `json:"outcome_note"`
}

// LastFour returns the trailing four digits of the masked card, or whatever
// digits exist when there are fewer than four.
func (c FraudCase) LastFour() string {
	digits := make([]rune, 0, len(c.MaskedCard))
	for _, r := range c.MaskedCard {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	return string(digits[len(digits)-4:])
}
