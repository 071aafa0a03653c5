package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/emlakpro/core/internal/config"
	"github.com/emlakpro/core/internal/models"
	"github.com/emlakpro/core/internal/pkg/apperr"
	"github.com/emlakpro/core/internal/pkg/jwt"
)

const tokenTTL = 24 * time.Hour

// Service authenticates panel operators.
type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	var user models.UserModel
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.Validation("username", "Kullanıcı adı veya şifre hatalı")
	}
	if err != nil {
		return "", apperr.Query("get user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", apperr.Validation("password", "Kullanıcı adı veya şifre hatalı")
	}

	token, err := jwt.Sign(user.ID, user.Username, tokenTTL)
	if err != nil {
		return "", apperr.Query("sign token", err)
	}
	return token, nil
}

// SeedAdmin ensures the configured operator account exists.
func (s *Service) SeedAdmin(ctx context.Context, cfg config.AdminConfig) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("username = ?", cfg.Username).Count(&count).Error; err != nil {
		return apperr.Query("count users", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &models.UserModel{Username: cfg.Username, PasswordHash: string(hash)}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return apperr.Query("create admin user", err)
	}
	s.log.Info("seeded admin account", zap.String("username", cfg.Username))
	return nil
}
