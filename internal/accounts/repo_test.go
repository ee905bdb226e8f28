package accounts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/farm2home/farm2home-backend/pkg/enums"
)

func setupAccountsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	accountsTable := `
CREATE TABLE IF NOT EXISTS accounts (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  username TEXT UNIQUE,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  phone TEXT,
  address TEXT,
  farm_name TEXT,
  profile_image TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(accountsTable).Error)
	return db
}

func seedAccount(t *testing.T, repo *Repository, email string, username *string) uuid.UUID {
	t.Helper()

	created, err := repo.Create(context.Background(), CreateAccountDTO{
		Name:         "Test Account",
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		Role:         enums.AccountRoleClient,
	})
	require.NoError(t, err)
	return created.ID
}

func TestRepositoryFindByIdentifier(t *testing.T) {
	repo := NewRepository(setupAccountsTestDB(t))
	username := "rosa_farm"
	id := seedAccount(t, repo, "rosa@example.com", &username)

	byEmail, err := repo.FindByIdentifier(context.Background(), "Rosa@Example.com")
	require.NoError(t, err)
	require.Equal(t, id, byEmail.ID)

	byUsername, err := repo.FindByIdentifier(context.Background(), "rosa_farm")
	require.NoError(t, err)
	require.Equal(t, id, byUsername.ID)

	_, err = repo.FindByIdentifier(context.Background(), "nobody")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateProfilePartial(t *testing.T) {
	repo := NewRepository(setupAccountsTestDB(t))
	id := seedAccount(t, repo, "rosa@example.com", nil)

	phone := "555-0101"
	updated, err := repo.UpdateProfile(context.Background(), id, ProfilePatch{Phone: &phone})
	require.NoError(t, err)
	require.Equal(t, "Test Account", updated.Name)
	require.NotNil(t, updated.Phone)
	require.Equal(t, phone, *updated.Phone)
	require.Nil(t, updated.FarmName)
}

func TestRepositoryUpdateProfileMissingAccount(t *testing.T) {
	repo := NewRepository(setupAccountsTestDB(t))

	name := "Ghost"
	_, err := repo.UpdateProfile(context.Background(), uuid.New(), ProfilePatch{Name: &name})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryEmptyPatchReturnsCurrentRow(t *testing.T) {
	repo := NewRepository(setupAccountsTestDB(t))
	id := seedAccount(t, repo, "rosa@example.com", nil)

	current, err := repo.UpdateProfile(context.Background(), id, ProfilePatch{})
	require.NoError(t, err)
	require.Equal(t, id, current.ID)
}
