package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/qpaper/internal/app/models"
	appRepos "github.com/yigit/qpaper/internal/app/repositories"
	"github.com/yigit/qpaper/internal/config"
	"github.com/yigit/qpaper/internal/pkg/apperrors"
	"github.com/yigit/qpaper/internal/pkg/auth"
)

// UserStore is the part of the user repository seeding needs
type UserStore interface {
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user *appModels.User) (int64, error)
}

var _ UserStore = (*appRepos.UserRepository)(nil)

// CreateDefaultData creates the configured seed account for the accounts scheme if it does not exist.
func CreateDefaultData(ctx context.Context, cfg *config.Config, users UserStore, lgr zerolog.Logger) error {
	if cfg.Auth.Scheme != config.SchemeAccounts || cfg.Seed.Username == "" {
		return nil
	}
	if cfg.Seed.Password == "" {
		lgr.Warn().Str("username", cfg.Seed.Username).Msg("Seed username configured without a password, skipping")
		return nil
	}

	exists, err := users.UsernameExists(ctx, cfg.Seed.Username)
	if err != nil {
		return fmt.Errorf("error checking seed user: %w", err)
	}
	if exists {
		lgr.Debug().Str("username", cfg.Seed.Username).Msg("Seed user already exists")
		return nil
	}

	hash, err := auth.HashPassword(cfg.Seed.Password)
	if err != nil {
		return fmt.Errorf("error hashing seed password: %w", err)
	}

	_, err = users.Create(ctx, &appModels.User{Username: cfg.Seed.Username, Password: hash})
	if errors.Is(err, apperrors.ErrUsernameTaken) {
		// Another instance created it between the check and the insert
		lgr.Debug().Str("username", cfg.Seed.Username).Msg("Seed user already exists")
		return nil
	}
	if err != nil {
		lgr.Error().Err(err).Str("username", cfg.Seed.Username).Msg("Error creating seed user")
		return err
	}

	lgr.Info().Str("username", cfg.Seed.Username).Msg("Seed user created")
	return nil
}
