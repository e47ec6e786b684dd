package models

import (
	"math"
	"time"

	"invertred/internal/domain"
)

// Profile is the member record paired 1:1 with a User by ID.
// SponsorID is a back-reference into the referral forest: at most one
// parent, never a cycle (registration only ever links to an existing
// profile), nil for root members.
type Profile struct {
	ID          string     `gorm:"primaryKey;size:64" json:"id"`
	Name        string     `gorm:"size:128;not null" json:"name"`
	Country     string     `gorm:"size:64" json:"country"`
	Phone       string     `gorm:"size:32" json:"phone"`
	BirthDate   *time.Time `json:"birth_date"`
	Role        string     `gorm:"size:16;not null;default:USER" json:"role"`
	AccountType string     `gorm:"size:16;not null;index" json:"account_type"` // AFFILIATE | MEMBER

	PaymentStatus      string     `gorm:"size:32;not null;index" json:"payment_status"`
	SubscriptionActive bool       `gorm:"not null;default:false" json:"subscription_active"`
	SubscriptionEnd    *time.Time `json:"subscription_end"`
	ApprovedAt         *time.Time `json:"approved_at"`
	ReportedAt         *time.Time `json:"reported_at"`
	PendingTxRef       string     `gorm:"size:128" json:"pending_tx_ref"` // tx reported by the member, cleared on approval

	SponsorID    *string `gorm:"size:64;index" json:"sponsor_id"`
	ReferralCode string  `gorm:"uniqueIndex;size:32;not null" json:"referral_code"`

	DirectReferrals  int    `gorm:"not null;default:0" json:"direct_referrals"`
	TotalReferrals   int    `gorm:"not null;default:0" json:"total_referrals"` // transitive, accumulated at approval time
	PendingCommCents int64  `gorm:"not null;default:0" json:"pending_commission_cents"`
	WalletAddress    string `gorm:"size:128" json:"wallet_address"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Payments    []PaymentRecord    `gorm:"foreignKey:ProfileID" json:"payments,omitempty"`
	Commissions []CommissionEntry  `gorm:"foreignKey:ProfileID" json:"commissions,omitempty"`
	Payouts     []CommissionPayout `gorm:"foreignKey:ProfileID" json:"payouts,omitempty"`
}

func (p *Profile) IsAffiliate() bool { return p.AccountType == domain.AccountAffiliate }
func (p *Profile) IsAdmin() bool     { return p.Role == domain.RoleAdmin }

// DaysRemaining returns whole subscription days left at t, rounded up
// and clamped at zero. Inactive or open-ended profiles report zero.
func (p *Profile) DaysRemaining(t time.Time) int {
	if !p.SubscriptionActive || p.SubscriptionEnd == nil {
		return 0
	}
	diff := p.SubscriptionEnd.Sub(t)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}
