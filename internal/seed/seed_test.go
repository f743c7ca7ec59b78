package seed

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	appModels "github.com/yigit/qpaper/internal/app/models"
	appRepos "github.com/yigit/qpaper/internal/app/repositories"
	"github.com/yigit/qpaper/internal/config"
	"github.com/yigit/qpaper/internal/pkg/apperrors"
	"github.com/yigit/qpaper/internal/pkg/auth"
	"github.com/yigit/qpaper/internal/testutil"
)

func init() {
	auth.BcryptCost = bcrypt.MinCost
}

func seedConfig(t *testing.T) *config.Config {
	cfg := testutil.TestConfig(t.TempDir())
	cfg.Seed.Username = "librarian"
	cfg.Seed.Password = "shelves"
	return cfg
}

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	cfg := seedConfig(t)
	users := appRepos.NewUserRepository(testutil.SetupTestDB(t))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := CreateDefaultData(ctx, cfg, users, zerolog.Nop()); err != nil {
			t.Fatalf("CreateDefaultData() run %d error = %v", i+1, err)
		}
	}

	names, err := users.ListUsernames(ctx)
	if err != nil {
		t.Fatalf("ListUsernames() error = %v", err)
	}
	if len(names) != 1 || names[0] != "librarian" {
		t.Errorf("usernames = %v, want [librarian]", names)
	}
}

func TestCreateDefaultDataSkipsAdminScheme(t *testing.T) {
	cfg := seedConfig(t)
	cfg.Auth.Scheme = config.SchemeAdmin
	users := appRepos.NewUserRepository(testutil.SetupTestDB(t))

	if err := CreateDefaultData(context.Background(), cfg, users, zerolog.Nop()); err != nil {
		t.Fatalf("CreateDefaultData() error = %v", err)
	}
	if exists, _ := users.UsernameExists(context.Background(), "librarian"); exists {
		t.Error("seed user must not be created in the admin scheme")
	}
}

// racingStore reports the user missing, then loses the insert to a concurrent writer
type racingStore struct{}

func (racingStore) UsernameExists(context.Context, string) (bool, error) { return false, nil }

func (racingStore) Create(context.Context, *appModels.User) (int64, error) {
	return 0, apperrors.ErrUsernameTaken
}

func TestCreateDefaultDataLostRaceIsNotReportedAsCreated(t *testing.T) {
	var logs bytes.Buffer
	lgr := zerolog.New(&logs).Level(zerolog.DebugLevel)

	if err := CreateDefaultData(context.Background(), seedConfig(t), racingStore{}, lgr); err != nil {
		t.Fatalf("CreateDefaultData() error = %v", err)
	}
	if strings.Contains(logs.String(), "Seed user created") {
		t.Errorf("logged a creation that did not happen: %s", logs.String())
	}
	if !strings.Contains(logs.String(), "Seed user already exists") {
		t.Errorf("expected the existing-user log line, got: %s", logs.String())
	}
}
