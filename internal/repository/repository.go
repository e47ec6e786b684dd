package repository

import (
	"errors"

	"invertred/internal/models"
)

// ErrNotFound is returned by every store when a record does not exist.
// Implementations translate their driver's not-found error to this one so
// services never depend on the storage backend.
var ErrNotFound = errors.New("record not found")

// UserStore holds credential records.
type UserStore interface {
	Create(u *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Save(u *models.User) error
	Delete(id string) error
	ListAll() ([]models.User, error)
}

// ProfileStore holds member records with their payment, commission and
// payout histories. SaveAll persists a set of mutated profiles as one batch
// so a commission walk lands atomically or not at all.
type ProfileStore interface {
	Create(p *models.Profile) error
	GetByID(id string) (*models.Profile, error)
	GetByReferralCode(code string) (*models.Profile, error)
	ListByReferrer(sponsorID string) ([]models.Profile, error)
	ListAll() ([]models.Profile, error)
	Save(p *models.Profile) error
	SaveAll(ps []*models.Profile) error
	Delete(id string) error
}
