package authorization

import "github.com/shopspring/decimal"

type Outcome string

const (
	Approved Outcome = "approved"
	Declined Outcome = "declined"
)

// reason codes follow the ISO 8583 response code style
const (
	ReasonApproved          = "00"
	ReasonInsufficientFunds = "51"
	ReasonExceedsLimit      = "61"
)

type Decision struct {
	Outcome    Outcome `json:"outcome"`
	ReasonCode string  `json:"reason_code"`
}

type rule struct {
	last4 string
	// when nil the rule matches any amount
	when     func(amount decimal.Decimal) bool
	decision Decision
}

var limit = decimal.NewFromInt(1000)

// rules are evaluated in order, the first match wins.
var rules = []rule{
	{last4: "1111", decision: Decision{Approved, ReasonApproved}},
	{last4: "2222", decision: Decision{Declined, ReasonInsufficientFunds}},
	{
		last4:    "3333",
		when:     func(amount decimal.Decimal) bool { return amount.GreaterThan(limit) },
		decision: Decision{Declined, ReasonExceedsLimit},
	},
	{last4: "3333", decision: Decision{Approved, ReasonApproved}},
}

var fallback = Decision{Approved, ReasonApproved}

// Decide simulates the issuer response for a card identified by its last
// four digits. amount is expected to be positive; validating it is up to
// the caller.
func Decide(last4 string, amount decimal.Decimal) Decision {
	for _, r := range rules {
		if r.last4 != last4 {
			continue
		}
		if r.when == nil || r.when(amount) {
			return r.decision
		}
	}
	return fallback
}
