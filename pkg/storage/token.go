package storage

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	serviceRole     = "service_role"
	serviceTokenTTL = 10 * 365 * 24 * time.Hour
)

type serviceClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// CreateServiceToken mints the HS256 token PostgREST expects for the service role.
func CreateServiceToken(secret string) (string, error) {
	now := time.Now()

	claims := serviceClaims{
		Role: serviceRole,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "obsprobe",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(serviceTokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
