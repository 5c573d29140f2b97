package models

// TokenRecord is one token the aggregator reports for an address.
type TokenRecord struct {
	TokenID string `json:"token_id"`
	Name    string `json:"name"`
	Image   string `json:"image"`
}

// Decision is the outcome of an entitlement check. The zero value denies.
type Decision int

const (
	NotEntitled Decision = iota
	Entitled
)

func (d Decision) String() string {
	if d == Entitled {
		return "entitled"
	}
	return "not_entitled"
}

func (d Decision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DecisionFor applies the entitlement rule: at least one token.
func DecisionFor(tokens []*TokenRecord) Decision {
	if len(tokens) > 0 {
		return Entitled
	}
	return NotEntitled
}

type Entitlement struct {
	Address  string         `json:"address"`
	Decision Decision       `json:"decision"`
	Tokens   []*TokenRecord `json:"tokens"`
}
