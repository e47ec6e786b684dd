package repository

import (
	"invertred/internal/models"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(p *models.Profile) error {
	return r.db.Create(p).Error
}

func (r *ProfileRepository) GetByID(id string) (*models.Profile, error) {
	var p models.Profile
	err := r.preloaded().First(&p, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProfileRepository) GetByReferralCode(code string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.Where("referral_code = ?", code).First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProfileRepository) ListByReferrer(sponsorID string) ([]models.Profile, error) {
	var ps []models.Profile
	err := r.db.Where("sponsor_id = ?", sponsorID).Order("created_at").Find(&ps).Error
	return ps, err
}

func (r *ProfileRepository) ListAll() ([]models.Profile, error) {
	var ps []models.Profile
	err := r.preloaded().Order("created_at").Find(&ps).Error
	return ps, err
}

func (r *ProfileRepository) Save(p *models.Profile) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(p).Error
}

// SaveAll writes a batch of mutated profiles (counters, balances and any
// appended history entries) inside one transaction.
func (r *ProfileRepository) SaveAll(ps []*models.Profile) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		session := tx.Session(&gorm.Session{FullSaveAssociations: true})
		for _, p := range ps {
			if err := session.Save(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ProfileRepository) Delete(id string) error {
	res := r.db.Delete(&models.Profile{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProfileRepository) preloaded() *gorm.DB {
	return r.db.Preload("Payments").Preload("Commissions").Preload("Payouts")
}
