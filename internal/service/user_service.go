package service

import (
	"Amem/internal/api/dto"
	"Amem/internal/model"
	"Amem/internal/pkg/consts"
	"Amem/internal/pkg/redis"
	"Amem/internal/pkg/security"
	"Amem/internal/pkg/util"
	"Amem/internal/repository"
	"context"
	"strings"
)

type UserService interface {
	Register(ctx context.Context, dto *dto.RegisterDTO) (*dto.UserDTO, error)
	Login(ctx context.Context, dto *dto.CredentialDTO) (*dto.LoginDTO, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
}

func NewUserService(userRepo repository.UserRepo) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) (*dto.UserDTO, error) {
	username := strings.TrimSpace(regDTO.Username)
	nickname := strings.TrimSpace(regDTO.Nickname)
	if username == "" || nickname == "" {
		return nil, ErrParamInvalid
	}

	findUser, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}
	if findUser != nil {
		return nil, ErrUserExist
	}

	hashedPassword, err := security.HashPassword(regDTO.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     util.PtrString(username),
		Password:     util.PtrString(hashedPassword),
		Nickname:     nickname,
		Denomination: strings.TrimSpace(regDTO.Denomination),
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		// 并发注册同名用户
		if repository.IsDuplicateError(err) {
			return nil, ErrUserExist
		}
		return nil, err
	}
	return toUserDTO(user), nil
}

// Login 校验密码并签发 token，用户不存在与密码错误返回同一个错误
func (s *UserServiceImpl) Login(ctx context.Context, credential *dto.CredentialDTO) (*dto.LoginDTO, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, strings.TrimSpace(credential.Username))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrPasswordIncorrect
		}
		return nil, err
	}
	if user.Password == nil {
		return nil, ErrPasswordIncorrect
	}
	if err = security.CheckPasswordHash(credential.Password, *user.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}

	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.LoginDTO{User: toUserDTO(user), Token: token}, nil
}

// Logout 将 token 签名加入黑名单，直到 token 自然过期
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	claims, err := security.ValidateToken(token)
	if err != nil {
		// 已失效的 token 无需拉黑
		return nil
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	ttl := security.RemainingTTL(claims)
	if ttl <= 0 {
		return nil
	}
	return redis.SetWithExpiration(ctx, consts.TokenBlacklistKey+signature, true, ttl)
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserDTO(user), nil
}

func toUserDTO(u *model.User) *dto.UserDTO {
	return &dto.UserDTO{
		ID:           u.ID,
		Username:     util.Deref(u.Username),
		Nickname:     u.Nickname,
		Denomination: u.Denomination,
		CreatedAt:    util.FormatTime(u.CreatedAt),
	}
}
