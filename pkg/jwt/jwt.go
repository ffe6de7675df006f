package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	unlockAudience = "link-unlock"
	// maxUserIDLength 与所有者列宽一致
	maxUserIDLength = 64
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenSubject = errors.New("token issued for another link")
)

// Claims 登录令牌, 由外部认证服务签发, 这里只负责校验
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// TokenManager 负责令牌的签发与校验
type TokenManager struct {
	secret          []byte
	issuer          string
	expirationHours int
}

// NewManager 创建令牌管理器
func NewManager(secret, issuer string, expirationHours int) *TokenManager {
	return &TokenManager{
		secret:          []byte(secret),
		issuer:          issuer,
		expirationHours: expirationHours,
	}
}

// GenerateToken 签发用户令牌, 主要用于测试和内部工具
func (m *TokenManager) GenerateToken(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(m.expirationHours) * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ValidateToken 校验用户令牌
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	// 中间页的确认令牌不能当作登录令牌使用
	for _, aud := range claims.Audience {
		if aud == unlockAudience {
			return nil, ErrInvalidToken
		}
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" || len(claims.UserID) > maxUserIDLength {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateUnlockToken 中间页的一次性确认令牌, 绑定到具体短码
func (m *TokenManager) GenerateUnlockToken(shortID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    m.issuer,
		Subject:   shortID,
		Audience:  jwt.ClaimStrings{unlockAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ValidateUnlockToken 校验确认令牌是否属于 shortID
func (m *TokenManager) ValidateUnlockToken(tokenString, shortID string) error {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(unlockAudience),
	)
	if err != nil || !token.Valid {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject != shortID {
		return ErrTokenSubject
	}
	return nil
}

func (m *TokenManager) keyFunc(*jwt.Token) (interface{}, error) {
	return m.secret, nil
}
