package service

import (
	"context"
	"database/sql"
	"errors"

	"sparksound/internal/model"
	"sparksound/internal/repository"
	"sparksound/pkg/lang"
	"sparksound/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"k8s.io/apimachinery/pkg/util/rand"
)

// 服务层通用错误
var (
	ErrForbidden       = errors.New("无权执行该操作")
	ErrUserExists      = errors.New("用户名或邮箱已被占用")
	ErrAuthFailed      = errors.New("用户不存在或密码错误")
	ErrInvalidLanguage = errors.New("不支持的语言")
)

// UserService 用户服务接口
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, identifier, password string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByToken(ctx context.Context, token string) (*model.User, error)
	UpdateLanguage(ctx context.Context, userID int64, language string) error
	List(ctx context.Context, page, pageSize int) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
}

// userService 用户服务实现
type userService struct {
	userRepo *repository.UserRepository
	logger   *logger.Logger
}

// NewUserService 创建用户服务实例
func NewUserService(userRepo *repository.UserRepository, logger *logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Register 注册用户
func (s *userService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	// 检查用户名和邮箱是否已被占用
	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:          username,
		Email:             email,
		Password:          string(hashed),
		Token:             rand.String(32),
		PreferredLanguage: "en-IN",
		Status:            1,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", "username", username, "error", err)
		return nil, err
	}

	return user, nil
}

// Login 用户登录，成功后轮换Token
func (s *userService) Login(ctx context.Context, identifier, password string) (*model.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, identifier)
	if errors.Is(err, sql.ErrNoRows) {
		user, err = s.userRepo.GetByEmail(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAuthFailed
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrAuthFailed
	}

	// 每次登录生成新Token
	user.Token = rand.String(32)
	if err := s.userRepo.UpdateToken(ctx, user.ID, user.Token); err != nil {
		s.logger.Error("更新用户Token失败", "user_id", user.ID, "error", err)
		return nil, err
	}

	return user, nil
}

// GetByID 根据ID获取用户
func (s *userService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetByToken 根据Token获取用户
func (s *userService) GetByToken(ctx context.Context, token string) (*model.User, error) {
	return s.userRepo.GetByToken(ctx, token)
}

// UpdateLanguage 更新用户首选语言
func (s *userService) UpdateLanguage(ctx context.Context, userID int64, language string) error {
	if !lang.IsSupported(language) {
		return ErrInvalidLanguage
	}
	return s.userRepo.UpdatePreferredLanguage(ctx, userID, language)
}

// List 获取用户列表（分页）
func (s *userService) List(ctx context.Context, page, pageSize int) ([]model.User, error) {
	offset := (page - 1) * pageSize
	return s.userRepo.List(ctx, offset, pageSize)
}

// Count 获取用户总数
func (s *userService) Count(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}
