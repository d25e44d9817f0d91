package service

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
	"training-hub-api/config"
	"training-hub-api/logger"
	"training-hub-api/model"
	"training-hub-api/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrInvalidRefreshToken = errors.New("refresh token is invalid, expired, or revoked")
)

// refreshSecretBytes is the entropy of the opaque refresh secret handed to the
// client. Only its SHA-256 digest is persisted.
const refreshSecretBytes = 48

// TokenPair is what a successful login, registration, or refresh returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService issues and rotates credentials. The JWT config is captured once
// at construction; nothing here reads ambient state per request.
type AuthService struct {
	userRepo  repository.IUserRepository
	tokenRepo repository.ITokenRepository
	cfg       config.JWTConfig
}

func NewAuthService(userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository, cfg config.JWTConfig) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		cfg:       cfg,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), err
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Register creates the user and signs them in, returning the user and a fresh
// token pair.
func (s *AuthService) Register(req model.RegisterRequest) (*model.User, *TokenPair, error) {
	if existing, err := s.userRepo.GetUserByEmail(req.Email); err == nil && existing != nil {
		return nil, nil, ErrEmailTaken
	}

	hashedPassword, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     string(model.RoleStudent),
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login verifies the password and issues a token pair.
func (s *AuthService) Login(email, password string) (*model.User, *TokenPair, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !s.CheckPasswordHash(password, user.Password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges a raw refresh secret for a new token pair, rotating the
// stored record. The rotation is one conditional statement in the store, so
// two concurrent requests presenting the same secret cannot both succeed: the
// loser fails exactly as if the token were already revoked.
func (s *AuthService) Refresh(rawRefreshToken string) (*TokenPair, error) {
	newSecret, newHash, err := s.newRefreshSecret()
	if err != nil {
		return nil, err
	}

	oldHash := HashRefreshSecret(rawRefreshToken)
	expiresAt := time.Now().Add(time.Duration(s.cfg.RefreshTokenHours) * time.Hour)

	rotated, err := s.tokenRepo.Rotate(oldHash, newHash, expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	// The refresh record carries no role claim; looking the user up keeps
	// role changes effective at rotation time instead of waiting for the
	// next login.
	user, err := s.userRepo.GetUserByID(rotated.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.generateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: newSecret}, nil
}

// Logout revokes every live refresh token for the user. Subsequent refresh
// attempts with any of them fail.
func (s *AuthService) Logout(userID int) error {
	return s.tokenRepo.RevokeByUserID(userID)
}

func (s *AuthService) issueTokenPair(user *model.User) (*TokenPair, error) {
	accessToken, err := s.generateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	secret, hash, err := s.newRefreshSecret()
	if err != nil {
		return nil, err
	}

	record := &model.RefreshToken{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: time.Now().Add(time.Duration(s.cfg.RefreshTokenHours) * time.Hour),
	}
	if err := s.tokenRepo.Create(record); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: secret}, nil
}

func (s *AuthService) generateAccessToken(userID int, role string) (string, error) {
	expirationTime := time.Now().Add(time.Duration(s.cfg.AccessTokenHours) * time.Hour)

	claims := &model.AppClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// newRefreshSecret mints the raw URL-safe secret and its storable digest.
func (s *AuthService) newRefreshSecret() (secret, hash string, err error) {
	buf := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		logger.Log.WithError(err).Error("Failed to generate refresh secret")
		return "", "", fmt.Errorf("failed to generate refresh secret: %w", err)
	}
	secret = base64.RawURLEncoding.EncodeToString(buf)
	return secret, HashRefreshSecret(secret), nil
}

// HashRefreshSecret is the one-way digest stored in place of the raw secret.
func HashRefreshSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
