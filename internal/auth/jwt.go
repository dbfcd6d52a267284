package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/defectrack/defectrack/internal/types"
	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = time.Hour * 168

var jwtSecret string

func SetJWTSecret(secret string) error {
	if secret == "" {
		return errors.New("JWT secret must not be empty")
	}
	jwtSecret = secret
	return nil
}

func GenerateJWT(userID uint, username string, role types.Role) (string, error) {
	if jwtSecret == "" {
		return "", errors.New("JWT secret is not initialized")
	}

	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"role":     string(role),
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

func VerifyJWT(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("Invalid or expired token")
	}

	return token, nil
}

// UserIDFromToken extracts the user_id claim from a verified token.
func UserIDFromToken(token *jwt.Token) (uint, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("Invalid token claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok || userIDFloat <= 0 {
		return 0, errors.New("Invalid user ID in token claims")
	}

	return uint(userIDFloat), nil
}
