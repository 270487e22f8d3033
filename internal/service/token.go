package service

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken возвращается для любого токена, который не прошёл проверку.
var ErrInvalidToken = errors.New("invalid token")

// TokenClaims данные, извлечённые из access токена провайдера аутентификации.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
}

// TokenManager проверяет HS256 токены, выпущенные внешним провайдером.
// Выпуск токенов в этом сервисе не нужен.
type TokenManager struct {
	secret []byte
}

// NewTokenManager создаёт проверяющий менеджер токенов.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// ParseAccess проверяет подпись и срок действия и возвращает идентификатор пользователя.
func (m *TokenManager) ParseAccess(token string) (TokenClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return TokenClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return TokenClaims{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return TokenClaims{}, fmt.Errorf("%w: subject is not a uuid", ErrInvalidToken)
	}

	email, _ := claims["email"].(string)
	return TokenClaims{UserID: userID, Email: email}, nil
}
