package accounts

import (
	"time"

	"github.com/google/uuid"

	"github.com/farm2home/farm2home-backend/pkg/db/models"
	"github.com/farm2home/farm2home-backend/pkg/enums"
)

// AccountDTO is the transport shape that omits the password hash.
type AccountDTO struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Username     *string           `json:"username,omitempty"`
	Email        string            `json:"email"`
	Role         enums.AccountRole `json:"role"`
	Phone        *string           `json:"phone,omitempty"`
	Address      *string           `json:"address,omitempty"`
	FarmName     *string           `json:"farm_name,omitempty"`
	ProfileImage *string           `json:"profile_image,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// CreateAccountDTO holds the data required by the repo to persist a new account.
type CreateAccountDTO struct {
	Name         string
	Username     *string
	Email        string
	PasswordHash string
	Role         enums.AccountRole
	Phone        *string
	Address      *string
	FarmName     *string
}

// ProfilePatch enumerates the fields an authenticated account may change.
// Nil means "leave as is"; credentials and role are deliberately absent.
type ProfilePatch struct {
	Name         *string
	Phone        *string
	Address      *string
	FarmName     *string
	ProfileImage *string
}

// IsEmpty reports whether the patch would change nothing.
func (p ProfilePatch) IsEmpty() bool {
	return p.Name == nil && p.Phone == nil && p.Address == nil && p.FarmName == nil && p.ProfileImage == nil
}

func FromModel(a *models.Account) *AccountDTO {
	if a == nil {
		return nil
	}

	return &AccountDTO{
		ID:           a.ID,
		Name:         a.Name,
		Username:     a.Username,
		Email:        a.Email,
		Role:         a.Role,
		Phone:        a.Phone,
		Address:      a.Address,
		FarmName:     a.FarmName,
		ProfileImage: a.ProfileImage,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (c CreateAccountDTO) ToModel() *models.Account {
	return &models.Account{
		Name:         c.Name,
		Username:     c.Username,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Role:         c.Role,
		Phone:        c.Phone,
		Address:      c.Address,
		FarmName:     c.FarmName,
	}
}
