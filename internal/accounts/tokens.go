package accounts

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecofood/internal/models"
)

// Claims is what an access token asserts about its bearer.
type Claims struct {
	AccountID primitive.ObjectID
	Role      models.Role
	Email     string
}

type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

func signAccessToken(secret []byte, a models.Account, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   a.ID.Hex(),
		"role":  string(a.Role),
		"email": a.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseAccessToken validates an HS256 access token and extracts its claims.
func ParseAccessToken(secret, raw string) (Claims, error) {
	return ParseAccessTokenAt(secret, raw, time.Now())
}

// ParseAccessTokenAt is ParseAccessToken with expiry checked against now.
func ParseAccessTokenAt(secret, raw string, now time.Time) (Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenExpired, err)
	}
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, _ := mapClaims["sub"].(string)
	id, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		return Claims{}, errors.Join(ErrInvalidToken, err)
	}
	role, _ := mapClaims["role"].(string)
	if !models.Role(role).Valid() {
		return Claims{}, ErrInvalidToken
	}
	email, _ := mapClaims["email"].(string)

	return Claims{AccountID: id, Role: models.Role(role), Email: email}, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
