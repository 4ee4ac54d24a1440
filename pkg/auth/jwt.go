// Package auth 管理端 JWT 签发与校验
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin 核验付款所需角色
const RoleAdmin = "admin"

var (
	ErrSecretMissing = errors.New("admin jwt secret is not configured")
	ErrInvalidToken  = errors.New("invalid token")
	ErrForbidden     = errors.New("token does not carry the admin role")
)

// AdminClaims 管理端令牌声明
type AdminClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// IssueAdminToken 签发 HS256 管理端令牌
func IssueAdminToken(secret, email string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrSecretMissing
	}
	if strings.TrimSpace(email) == "" {
		return "", fmt.Errorf("admin email is required")
	}

	now := time.Now()
	claims := AdminClaims{
		Email: email,
		Role:  RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  email,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAdminToken 校验令牌签名、有效期与角色
func ParseAdminToken(secret, tokenString string) (*AdminClaims, error) {
	if secret == "" {
		return nil, ErrSecretMissing
	}

	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Role != RoleAdmin || claims.Email == "" {
		return nil, ErrForbidden
	}
	return claims, nil
}

// BearerToken 从 Authorization 头中取出令牌
func BearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
