package service

import (
	"amadeus_backend/internal/config"
	"amadeus_backend/internal/model"
	"amadeus_backend/internal/util"
	"amadeus_backend/pkg/logger"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type userStore interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByEmails(emails []string) ([]model.User, error)
	UpdateLastLogin(userID uint) error
}

type AuthService struct {
	UserRepo userStore
	Cfg      *config.Config
}

func NewAuthService(userRepo userStore, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

// Register 创建用户，密码以 bcrypt 哈希保存
func (s *AuthService) Register(user *model.User) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	return s.UserRepo.Create(user)
}

func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, util.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
		logger.Log.Warn("更新最后登录时间失败", zap.Uint("userID", user.ID), zap.Error(err))
	}
	return token, user, nil
}

// GetCurrentUser 根据 JWT 声明加载当前用户
func (s *AuthService) GetCurrentUser(c *gin.Context) (*model.User, error) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil, util.ErrUserNotFound
	}

	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
