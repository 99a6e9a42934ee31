package utils

import (
	"errors"

	"github.com/golang-jwt/jwt"

	"gatherly/config"
)

func secretKey() []byte {
	return []byte(config.AppConfig.JWTSecret)
}

// VerifyToken validates a signed JWT and returns the subject claim. Token
// issuance lives with the identity provider; this service only verifies.
func VerifyToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("token missing subject")
	}
	return sub, nil
}
