package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/luckyscan/internal/cache"
	"github.com/luckyscan/internal/config"
	"github.com/luckyscan/internal/logger"
	"github.com/luckyscan/internal/models"
	"github.com/luckyscan/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 后台账号认证服务
type AuthService struct {
	cfg       *config.Config
	staffRepo repository.StaffUserRepository
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, staffRepo repository.StaffUserRepository) *AuthService {
	return &AuthService{
		cfg:       cfg,
		staffRepo: staffRepo,
	}
}

// HashPassword 使用 bcrypt 加密密码
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword 校验密码是否符合策略
func (s *AuthService) ValidatePassword(password string) error {
	if s == nil || s.cfg == nil {
		return nil
	}
	return validatePassword(s.cfg.Security.PasswordPolicy, password)
}

// JWTClaims 后台 JWT 声明
type JWTClaims struct {
	StaffID      uint   `json:"staff_id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成 JWT Token
func (s *AuthService) GenerateJWT(user *models.StaffUser) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(s.cfg.JWT.ExpireHours) * time.Hour)

	claims := JWTClaims{
		StaffID:      user.ID,
		Username:     user.Username,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrTokenInvalid
}

// ResolveAuthState 读取账号鉴权快照，缓存未命中时回源数据库
func (s *AuthService) ResolveAuthState(ctx context.Context, staffID uint) (*cache.StaffAuthState, error) {
	state, hit, err := cache.GetStaffAuthState(ctx, staffID)
	if err != nil {
		logger.Warnw("staff_auth_state_cache_get_failed", "staff_id", staffID, "error", err)
	}
	if hit && state != nil {
		return state, nil
	}
	user, err := s.staffRepo.GetByID(staffID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrStaffUserNotFound
	}
	state = cache.BuildStaffAuthState(user)
	_ = cache.SetStaffAuthState(ctx, state)
	return state, nil
}

// CheckClaims 校验 Token 是否已被吊销
func (s *AuthService) CheckClaims(ctx context.Context, claims *JWTClaims) (*cache.StaffAuthState, error) {
	if claims == nil || claims.StaffID == 0 {
		return nil, ErrTokenInvalid
	}
	state, err := s.ResolveAuthState(ctx, claims.StaffID)
	if err != nil {
		if errors.Is(err, ErrStaffUserNotFound) {
			return nil, ErrTokenRevoked
		}
		return nil, err
	}
	if !state.IsActive {
		return nil, ErrAccountDisabled
	}
	if state.TokenVersion != claims.TokenVersion {
		return nil, ErrTokenRevoked
	}
	if state.TokenInvalidBefore > 0 && claims.IssuedAt != nil && claims.IssuedAt.Unix() < state.TokenInvalidBefore {
		return nil, ErrTokenRevoked
	}
	return state, nil
}

// Login 后台账号登录
func (s *AuthService) Login(username, password string) (*models.StaffUser, string, time.Time, error) {
	user, err := s.staffRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", time.Time{}, ErrAccountDisabled
	}

	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.staffRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetStaffAuthState(context.Background(), cache.BuildStaffAuthState(user))
	logger.Infow("staff_login", "staff_id", user.ID, "role", user.Role)

	return user, token, expiresAt, nil
}

// GetStaffUser 获取当前账号
func (s *AuthService) GetStaffUser(staffID uint) (*models.StaffUser, error) {
	user, err := s.staffRepo.GetByID(staffID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrStaffUserNotFound
	}
	return user, nil
}

// ChangePassword 修改密码并使已签发 Token 失效
func (s *AuthService) ChangePassword(staffID uint, oldPassword, newPassword string) error {
	user, err := s.staffRepo.GetByID(staffID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrStaffUserNotFound
	}
	if err := VerifyPassword(user.PasswordHash, oldPassword); err != nil {
		return ErrInvalidPassword
	}
	if err := s.ValidatePassword(newPassword); err != nil {
		return err
	}
	hashedPassword, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashedPassword
	now := time.Now()
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.staffRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetStaffAuthState(context.Background(), cache.BuildStaffAuthState(user))
	return nil
}
