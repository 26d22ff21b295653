package utils

import (
	"errors"
	"time"

	"hirewise/config"
	"hirewise/models"

	"github.com/golang-jwt/jwt"
)

const fallbackSecret = "hirewise-dev-secret"

func secretKey() []byte {
	if config.AppConfig.JWTSecret == "" {
		return []byte(fallbackSecret)
	}
	return []byte(config.AppConfig.JWTSecret)
}

// GenerateToken creates a signed token carrying the caller identity. Token issuance belongs to the
// auth service; this exists for tooling and tests.
func GenerateToken(actor models.Actor, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   actor.ID,
		"admin": actor.IsAdmin,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(duration).Unix(),
	}
	if actor.ProviderProfileID != "" {
		claims["providerId"] = actor.ProviderProfileID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ActorFromToken resolves the caller identity from a valid token.
func ActorFromToken(tokenString string) (models.Actor, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return models.Actor{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Actor{}, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.Actor{}, errors.New("token does not contain a valid 'sub' claim")
	}
	actor := models.Actor{ID: sub}
	if providerID, ok := claims["providerId"].(string); ok {
		actor.ProviderProfileID = providerID
	}
	if admin, ok := claims["admin"].(bool); ok {
		actor.IsAdmin = admin
	}
	return actor, nil
}
