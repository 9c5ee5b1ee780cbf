package utils

import (
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// ExtractUserIDFromToken parses the bearer token and returns the acting user's
// id (hex string) from the userId claim.
func ExtractUserIDFromToken(tokenString string) (string, error) {
	secretKey := os.Getenv("JWT_SECRET")
	if secretKey == "" {
		return "", fmt.Errorf("JWT_SECRET is not set")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	})
	if err != nil {
		return "", fmt.Errorf("error parsing token: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	userID, exists := claims["userId"]
	if !exists {
		return "", fmt.Errorf("userId claim not found in token")
	}
	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("userId claim is not a string")
	}
	return id, nil
}
