package service

import (
	"errors"
	"sort"
	"time"

	"invertred/config"
	"invertred/internal/domain"
	"invertred/internal/models"
	"invertred/internal/repository"
)

// AdminService builds the read models for the admin panel: member listings,
// member detail with downline, and payout queues.
type AdminService struct {
	users    repository.UserStore
	profiles repository.ProfileStore
	referral *ReferralService
	cfg      *config.ReferralConfig
	now      func() time.Time
}

func NewAdminService(users repository.UserStore, profiles repository.ProfileStore, referral *ReferralService, cfg *config.ReferralConfig) *AdminService {
	return &AdminService{users: users, profiles: profiles, referral: referral, cfg: cfg, now: time.Now}
}

// MemberRow is one row of the admin member listing.
type MemberRow struct {
	models.Profile
	Email         string `json:"email"`
	Rank          string `json:"rank"`
	DaysRemaining int    `json:"days_remaining"`
}

// ListMembers joins profiles with credential emails, annotates rank and
// remaining days, and sorts pending-verification members first, then newest
// registrations.
func (s *AdminService) ListMembers() ([]MemberRow, error) {
	profiles, err := s.profiles.ListAll()
	if err != nil {
		return nil, err
	}
	emails, err := s.emailIndex()
	if err != nil {
		return nil, err
	}
	now := s.now()
	rows := make([]MemberRow, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, MemberRow{
			Profile:       p,
			Email:         emails[p.ID],
			Rank:          Rank(s.cfg.RankTable, p.TotalReferrals),
			DaysRemaining: p.DaysRemaining(now),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		pi := rows[i].PaymentStatus == domain.StatusPendingVerification
		pj := rows[j].PaymentStatus == domain.StatusPendingVerification
		if pi != pj {
			return pi
		}
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows, nil
}

// MemberDetail is the full admin view of one member.
type MemberDetail struct {
	MemberRow
	Downline []DownlineEntry `json:"downline"`
}

func (s *AdminService) MemberDetail(email string) (*MemberDetail, error) {
	u, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p, err := s.profiles.GetByID(u.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	downline, err := s.referral.Downline(p.ID, s.cfg.MaxDepth)
	if err != nil {
		return nil, err
	}
	return &MemberDetail{
		MemberRow: MemberRow{
			Profile:       *p,
			Email:         u.Email,
			Rank:          Rank(s.cfg.RankTable, p.TotalReferrals),
			DaysRemaining: p.DaysRemaining(s.now()),
		},
		Downline: downline,
	}, nil
}

// PayoutDue is one affiliate owed a commission payout.
type PayoutDue struct {
	ProfileID     string    `json:"profile_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	WalletAddress string    `json:"wallet_address"`
	AmountCents   int64     `json:"amount_cents"`
	LastAccrual   time.Time `json:"last_accrual"`
}

// PayoutsDue lists affiliates with a wallet on file and a positive pending
// balance. LastAccrual falls back to the registration date when no
// commission entry exists.
func (s *AdminService) PayoutsDue() ([]PayoutDue, error) {
	profiles, err := s.profiles.ListAll()
	if err != nil {
		return nil, err
	}
	emails, err := s.emailIndex()
	if err != nil {
		return nil, err
	}
	var due []PayoutDue
	for i := range profiles {
		p := &profiles[i]
		if !p.IsAffiliate() || p.WalletAddress == "" || p.PendingCommCents <= 0 {
			continue
		}
		last := p.CreatedAt
		if n := len(p.Commissions); n > 0 {
			last = p.Commissions[n-1].EarnedAt
		}
		due = append(due, PayoutDue{
			ProfileID:     p.ID,
			Name:          p.Name,
			Email:         emails[p.ID],
			WalletAddress: p.WalletAddress,
			AmountCents:   p.PendingCommCents,
			LastAccrual:   last,
		})
	}
	return due, nil
}

// PayoutRecord is one settled payout in the admin history view.
type PayoutRecord struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	AmountCents int64     `json:"amount_cents"`
	Kind        string    `json:"kind"`
	TxRef       string    `json:"tx_ref"`
	PaidAt      time.Time `json:"paid_at"`
}

// PayoutHistory flattens payout entries across all profiles, newest first.
func (s *AdminService) PayoutHistory() ([]PayoutRecord, error) {
	profiles, err := s.profiles.ListAll()
	if err != nil {
		return nil, err
	}
	emails, err := s.emailIndex()
	if err != nil {
		return nil, err
	}
	var history []PayoutRecord
	for i := range profiles {
		p := &profiles[i]
		for _, po := range p.Payouts {
			history = append(history, PayoutRecord{
				Name:        p.Name,
				Email:       emails[p.ID],
				AmountCents: po.AmountCents,
				Kind:        po.Kind,
				TxRef:       po.TxRef,
				PaidAt:      po.PaidAt,
			})
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].PaidAt.After(history[j].PaidAt)
	})
	return history, nil
}

// IDByEmail resolves a credential email to the shared record id.
func (s *AdminService) IDByEmail(email string) (string, error) {
	u, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return u.ID, nil
}

func (s *AdminService) emailIndex() (map[string]string, error) {
	users, err := s.users.ListAll()
	if err != nil {
		return nil, err
	}
	emails := make(map[string]string, len(users))
	for _, u := range users {
		emails[u.ID] = u.Email
	}
	return emails, nil
}
