package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/saharaestate/backend/internal/core/mail"
	"github.com/saharaestate/backend/internal/domain"
	"github.com/saharaestate/backend/pkg/utils"
)

type UserService struct {
	users domain.UserRepository
	mail  mail.Sender
	log   *zap.Logger
}

func NewUserService(users domain.UserRepository, sender mail.Sender, log *zap.Logger) *UserService {
	return &UserService{users: users, mail: sender, log: log}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

type UpdateInput struct {
	Username string
	Email    string
	Password string // 非空才重置
	Avatar   string
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateInput) (*domain.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Username != "" {
		u.Username = in.Username
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Avatar != "" {
		u.Avatar = in.Avatar
	}
	if in.Password != "" {
		u.PasswordHash = utils.HashPassword(in.Password)
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.users.SoftDelete(ctx, id)
}

type ContactOwnerInput struct {
	OwnerID       string
	CustomerName  string
	CustomerEmail string
	Message       string
	ListingName   string
}

// ContactOwner 查出房东邮箱后把询盘转发过去；邮件失败上抛 DispatchFailure
func (s *UserService) ContactOwner(ctx context.Context, in ContactOwnerInput) error {
	owner, err := s.users.FindByID(ctx, in.OwnerID)
	if err != nil {
		return err
	}
	if owner == nil {
		return domain.ErrNotFound
	}

	subject, body := mail.InquiryBody(owner.Username, in.ListingName, in.CustomerName, in.CustomerEmail, in.Message)
	if err := s.mail.Send(owner.Email, subject, body); err != nil {
		s.log.Error("inquiry mail dispatch failed", zap.String("owner_id", owner.ID), zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrMailDispatch, err)
	}
	return nil
}

// SendListingMessage POST /email/send：不查库，直接给指定邮箱发消息
func (s *UserService) SendListingMessage(ctx context.Context, listingID, message, recipient string) error {
	subject, body := mail.ListingMessageBody(listingID, message)
	if err := s.mail.Send(recipient, subject, body); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMailDispatch, err)
	}
	return nil
}
