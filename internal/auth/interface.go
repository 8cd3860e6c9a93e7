package auth

import "curriculum/internal/domain/models"

// JWTVerifier defines the interface for JWT token verification.
// The middleware only sees this interface, so tests can substitute a fake.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.UserClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
