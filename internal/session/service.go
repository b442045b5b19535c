package session

import (
	"context"
	"errors"
	"fmt"

	apperrors "carpark/pkg/errors"
	"carpark/pkg/kv"
	"carpark/pkg/logger"
	"carpark/pkg/model"
	"carpark/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

const userKey = "user"

// Service persists the signed-in user profile.
type Service interface {
	Profile(ctx context.Context) (*model.UserProfile, error)
	Save(ctx context.Context, profile *model.UserProfile) error
	Clear(ctx context.Context) error
}

type service struct {
	store    kv.Store
	validate *validator.Validate
	log      *logger.Logger
}

func NewService(store kv.Store, log *logger.Logger) Service {
	return &service{
		store:    store,
		validate: validator.New(),
		log:      log,
	}
}

func (s *service) Profile(ctx context.Context) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := s.store.Get(ctx, userKey, &profile); err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return nil, apperrors.NotFound("user profile")
		}
		return nil, apperrors.Storage("Failed to load user profile", err)
	}
	return &profile, nil
}

func (s *service) Save(ctx context.Context, profile *model.UserProfile) error {
	profile.Name = sanitizer.NormalizeName(profile.Name)
	profile.Email = sanitizer.TrimAndNormalize(profile.Email)
	profile.Phone = sanitizer.TrimAndNormalize(profile.Phone)

	if err := s.validate.Struct(profile); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			details := map[string]any{}
			for _, fieldErr := range validationErrs {
				details[fieldErr.Field()] = fmt.Sprintf("failed %s validation", fieldErr.Tag())
			}
			return apperrors.Validation("Invalid user profile", details)
		}
		return apperrors.Internal("Profile validation failed", err)
	}

	if err := s.store.Set(ctx, userKey, profile); err != nil {
		return apperrors.Storage("Failed to save user profile", err)
	}
	return nil
}

func (s *service) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, userKey); err != nil && !errors.Is(err, kv.ErrKeyNotFound) {
		return apperrors.Storage("Failed to clear user profile", err)
	}
	return nil
}
