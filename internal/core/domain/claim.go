package domain

// Claim is a single (type, value) fact embedded in issued tokens.
type Claim struct {
	Type  string `json:"type" db:"claim_type"`
	Value string `json:"value" db:"claim_value"`
}

const (
	ClaimDomainUserID = "domainUserId"
	ClaimDisplayName  = "displayName"
	ClaimRole         = "role"
)

func NewClaim(claimType, value string) Claim {
	return Claim{Type: claimType, Value: value}
}
