package service

import (
	"Teamflow/internal/api/dto"
	"Teamflow/internal/model"
	"Teamflow/internal/pkg/consts"
	"Teamflow/internal/pkg/minio"
	"Teamflow/internal/pkg/redis"
	"Teamflow/internal/pkg/security"
	"Teamflow/internal/repository"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// UserService 用户服务接口定义
type UserService interface {
	Register(ctx context.Context, req *dto.RegisterDTO) (*dto.TokenDTO, error)
	Login(ctx context.Context, req *dto.LoginDTO) (*dto.TokenDTO, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetUsersByIDs(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error)
	UpdateProfile(ctx context.Context, id uint64, req *dto.UpdateProfileDTO) error
	UpdatePassword(ctx context.Context, id uint64, req *dto.ChangePasswordDTO) error
}

type userServiceImpl struct {
	userRepo repository.UserRepo
}

func NewUserService(userRepo repository.UserRepo) UserService {
	return &userServiceImpl{userRepo: userRepo}
}

func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterDTO) (*dto.TokenDTO, error) {
	if _, err := s.userRepo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, ErrUserExist
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:      req.Name,
		Email:     req.Email,
		Password:  hashed,
		AvatarURL: consts.DefaultAvatarURL,
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.issueToken(user)
}

func (s *userServiceImpl) Login(ctx context.Context, req *dto.LoginDTO) (*dto.TokenDTO, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := security.CheckPasswordHash(req.Password, user.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}

	return s.issueToken(user)
}

// Logout 将令牌签名拉黑到过期为止
func (s *userServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, consts.UserTokenBan+signature, true, time.Hour*24)
}

func (s *userServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	d := toUserDTO(user)
	d.AvatarURL = minio.GetPublicURL(user.AvatarURL)
	return d, nil
}

func (s *userServiceImpl) GetUsersByIDs(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error) {
	users, err := s.userRepo.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.UserDTO, 0, len(users))
	for _, user := range users {
		d := toUserDTO(user)
		d.AvatarURL = minio.GetPublicURL(user.AvatarURL)
		res = append(res, d)
	}
	return res, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, id uint64, req *dto.UpdateProfileDTO) error {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}
	if len(updates) == 0 {
		return ErrParamInvalid
	}
	return s.userRepo.UpdateUser(ctx, id, updates)
}

func (s *userServiceImpl) UpdatePassword(ctx context.Context, id uint64, req *dto.ChangePasswordDTO) error {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := security.CheckPasswordHash(req.OldPassword, user.Password); err != nil {
		return ErrPasswordIncorrect
	}

	hashed, err := security.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdateUser(ctx, id, map[string]interface{}{"password": hashed})
}

func (s *userServiceImpl) issueToken(user *model.User) (*dto.TokenDTO, error) {
	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	d := toUserDTO(user)
	d.AvatarURL = minio.GetPublicURL(user.AvatarURL)
	return &dto.TokenDTO{Token: token, User: d}, nil
}
