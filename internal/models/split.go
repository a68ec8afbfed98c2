package models

// Strategy selects how an expense total is apportioned among participants.
// Strategies are mutually exclusive and decide which share fields are
// editable and which are derived.
type Strategy string

const (
	// StrategyEqual divides the total evenly; nothing is editable.
	StrategyEqual Strategy = "equal"

	// StrategyPercentage makes the percentage primary; amounts are derived.
	StrategyPercentage Strategy = "percentage"

	// StrategyExact makes the amount primary; percentages are derived.
	StrategyExact Strategy = "exact"
)

// Strategies lists every supported strategy in display order.
var Strategies = []Strategy{StrategyEqual, StrategyPercentage, StrategyExact}

// ShareEntry represents one participant's portion of an expense.
// There is exactly one entry per participant, in participant input order.
type ShareEntry struct {
	// ParticipantID references the Participant this share belongs to.
	// Unique within a split.
	ParticipantID string `json:"participant_id"`

	// Name, Email and ImageURL are copied from the participant for display.
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	ImageURL string `json:"image_url,omitempty"`

	// Amount is the currency value this participant owes (>= 0).
	Amount float64 `json:"amount"`

	// Percentage is this participant's portion of the total, in [0, 100].
	Percentage float64 `json:"percentage"`

	// IsPayer is true iff this participant fronted the money.
	// At most one entry in a split has IsPayer set.
	IsPayer bool `json:"is_payer"`
}

// Aggregates summarizes a list of share entries against the expense total.
// The flags are advisory: the caller decides whether to allow submission.
type Aggregates struct {
	// TotalAmount is the sum of every entry's Amount.
	TotalAmount float64 `json:"total_amount"`

	// TotalPercentage is the sum of every entry's Percentage.
	TotalPercentage float64 `json:"total_percentage"`

	// IsAmountValid reports whether TotalAmount is within two cents of the
	// expense total.
	IsAmountValid bool `json:"is_amount_valid"`

	// IsPercentageValid reports whether TotalPercentage is within 0.1 of 100.
	IsPercentageValid bool `json:"is_percentage_valid"`
}

// CanSubmit reports whether a split with these aggregates may be submitted
// under the given strategy. Percentage splits gate on the percentage sum;
// equal and exact splits gate on the amount sum.
func (a Aggregates) CanSubmit(strategy Strategy) bool {
	if strategy == StrategyPercentage {
		return a.IsPercentageValid
	}
	return a.IsAmountValid
}
