package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/user/moviehub/internal/model"
	"gorm.io/gorm"
)

// AuthService 注册与登录
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register 注册新用户，用户名去掉首尾空白，邮箱转小写
func (s *AuthService) Register(ctx context.Context, username, password, email string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if utf8.RuneCountInString(username) < 3 {
		return nil, invalid("用户名至少需要3个字符")
	}
	if utf8.RuneCountInString(password) < 6 {
		return nil, invalid("密码至少需要6个字符")
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	user, err := s.users.Create(ctx, username, password, email)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrUsernameTaken
	}
	return user, err
}

// Login 校验用户名和密码，用户不存在与密码错误返回同一错误
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil || !s.users.CheckPassword(user, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
