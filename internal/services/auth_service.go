package services

import (
	"errors"
	"fmt"
	"time"

	"pasar/internal/repositories"

	"github.com/dgrijalva/jwt-go"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// LoginResult is returned by a successful Login.
type LoginResult struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// AuthService issues and validates bearer tokens.
type AuthService struct {
	userRepo  repositories.UserRepository
	hasher    PasswordHasher
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService. A non-positive ttl selects DefaultTokenTTL.
func NewAuthService(userRepo repositories.UserRepository, hasher PasswordHasher, jwtSecret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{
		userRepo:  userRepo,
		hasher:    hasher,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  ttl,
	}
}

// Login checks the credentials and returns a signed token.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		// Unknown email and wrong password look the same to the caller.
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     now.Add(s.tokenTTL).Unix(),
		"iat":     now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResult{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Token:  tokenString,
	}, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
