package auth

import (
	"github.com/farm2home/farm2home-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AccountID uuid.UUID
	Role      enums.AccountRole
}

// AccessTokenClaims represents the typed JWT issued to clients. The subject
// claim carries the account identifier.
type AccessTokenClaims struct {
	Role enums.AccountRole `json:"role"`
	jwt.RegisteredClaims
}

// AccountID parses the subject claim back into an account identifier.
func (c *AccessTokenClaims) AccountID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}
