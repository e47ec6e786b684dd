package models

import "time"

// PaymentRecord is one verified subscription payment on a profile.
type PaymentRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProfileID   string    `gorm:"size:64;not null;index" json:"profile_id"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	TxRef       string    `gorm:"size:128" json:"tx_ref"`
	PaidAt      time.Time `gorm:"not null" json:"paid_at"`
}

func (PaymentRecord) TableName() string { return "payment_records" }

// CommissionEntry is one accrual on an ancestor affiliate, recorded when a
// descendant's payment is approved. Level is 1-indexed (1 = direct referral).
type CommissionEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProfileID   string    `gorm:"size:64;not null;index" json:"profile_id"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	Level       int       `gorm:"not null" json:"level"`
	FromEmail   string    `gorm:"size:255;not null" json:"from_email"` // the approved member
	EarnedAt    time.Time `gorm:"not null" json:"earned_at"`
}

func (CommissionEntry) TableName() string { return "commission_entries" }

// CommissionPayout is one settled payout of the pending commission balance.
type CommissionPayout struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProfileID   string    `gorm:"size:64;not null;index" json:"profile_id"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	TxRef       string    `gorm:"size:128;not null" json:"tx_ref"`
	Kind        string    `gorm:"size:16;not null;default:REGULAR" json:"kind"` // REGULAR | ADVANCE
	PaidAt      time.Time `gorm:"not null" json:"paid_at"`
}

func (CommissionPayout) TableName() string { return "commission_payouts" }
