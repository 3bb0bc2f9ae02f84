package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "club-lotto-backend/internal/common/errors"
	"club-lotto-backend/internal/common/logger"
	"club-lotto-backend/internal/common/validation"
	"club-lotto-backend/internal/features/player/models"
	"club-lotto-backend/internal/features/player/repository"
)

type playerService struct {
	repo repository.PlayerRepository
}

func NewPlayerService(repo repository.PlayerRepository) PlayerService {
	return &playerService{repo: repo}
}

func validateInput(input PlayerInput) error {
	if err := validation.ValidateName("first_name", input.FirstName, validation.MaxFirstNameLength); err != nil {
		return apperrors.NewValidationError("first_name", err.Error())
	}
	if err := validation.ValidateName("last_name", input.LastName, validation.MaxLastNameLength); err != nil {
		return apperrors.NewValidationError("last_name", err.Error())
	}
	if err := validation.ValidateEmail(input.Email); err != nil {
		return apperrors.NewValidationError("email", err.Error())
	}
	return nil
}

func (s *playerService) Create(ctx context.Context, input PlayerInput) (*models.Player, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	player := &models.Player{
		ID:        uuid.New().String(),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, player); err != nil {
		if err == repository.ErrEmailTaken {
			return nil, apperrors.New(apperrors.ErrCodeConflict, "Email already registered").
				WithDetail("email", player.Email)
		}
		return nil, apperrors.NewDatabaseError("create player", err)
	}

	logger.Info().Str("player_id", player.ID).Msg("Player created")
	return player, nil
}

func (s *playerService) Get(ctx context.Context, id string) (*models.Player, error) {
	player, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrPlayerNotFound {
			return nil, apperrors.NewPlayerNotFoundError(id)
		}
		return nil, apperrors.NewDatabaseError("get player", err)
	}
	return player, nil
}

func (s *playerService) List(ctx context.Context) ([]*models.Player, error) {
	players, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list players", err)
	}
	return players, nil
}

func (s *playerService) Update(ctx context.Context, id string, input PlayerInput) (*models.Player, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	player, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	player.FirstName = strings.TrimSpace(input.FirstName)
	player.LastName = strings.TrimSpace(input.LastName)
	player.Email = strings.TrimSpace(input.Email)
	player.Phone = strings.TrimSpace(input.Phone)

	if err := s.repo.Update(ctx, player); err != nil {
		switch err {
		case repository.ErrPlayerNotFound:
			return nil, apperrors.NewPlayerNotFoundError(id)
		case repository.ErrEmailTaken:
			return nil, apperrors.New(apperrors.ErrCodeConflict, "Email already registered").
				WithDetail("email", player.Email)
		}
		return nil, apperrors.NewDatabaseError("update player", err)
	}
	return player, nil
}

func (s *playerService) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		if err == repository.ErrPlayerNotFound {
			return apperrors.NewPlayerNotFoundError(id)
		}
		return apperrors.NewDatabaseError("deactivate player", err)
	}
	logger.Info().Str("player_id", id).Msg("Player deactivated")
	return nil
}
