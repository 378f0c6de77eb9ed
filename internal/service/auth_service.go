package service

import (
	"context"
	"errors"
	"time"

	"wareinc/internal/config"
	"wareinc/internal/dto"
	"wareinc/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// RolOperador is the only role: the shop operator runs every ledger operation.
const RolOperador = "operador"

var ErrCredencialesInvalidas = errors.New("credenciales invalidas")

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

// authService checks credentials against the operator account configured via
// ADMIN_USERNAME / ADMIN_PASSWORD_HASH (bcrypt, see cmd/genhash).
type authService struct {
	cfg *config.Config
	now func() time.Time
}

func NewAuthService(cfg *config.Config) AuthService {
	return &authService{cfg: cfg, now: time.Now}
}

func (s *authService) Login(_ context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	if s.cfg.AdminPasswordHash == "" || req.Username != s.cfg.AdminUsername {
		return nil, ErrCredencialesInvalidas
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredencialesInvalidas
	}

	ttl := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	token, err := s.generateToken(req.Username, ttl)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(ttl.Seconds()),
		Username:    req.Username,
	}, nil
}

func (s *authService) generateToken(username string, duration time.Duration) (string, error) {
	now := s.now()
	claims := middleware.JWTClaims{
		Username: username,
		Rol:      RolOperador,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
