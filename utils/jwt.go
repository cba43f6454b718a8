package utils

import (
	"errors"
	"fmt"
	"time"

	"gigbridge/config"
	"gigbridge/models"

	"github.com/golang-jwt/jwt"
)

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "gigbridge-dev"
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT for the given account. The role claim is
// the role the token holder acts as (organizer or provider).
func GenerateToken(accountID string, role models.ActorRole, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  accountID,
		"role": string(role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ActorFromToken resolves the acting account once from a token string, so
// handlers receive an explicit ActorContext rather than re-deriving the role.
func ActorFromToken(tokenString string) (models.ActorContext, error) {
	token, err := ValidateToken(tokenString)
	if err != nil {
		return models.ActorContext{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.ActorContext{}, errors.New("invalid token claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return models.ActorContext{}, errors.New("token missing subject")
	}
	roleStr, _ := claims["role"].(string)
	role := models.ActorRole(roleStr)
	if role != models.RoleOrganizer && role != models.RoleProvider {
		return models.ActorContext{}, fmt.Errorf("unknown role claim %q", roleStr)
	}
	return models.ActorContext{AccountID: sub, Role: role}, nil
}
