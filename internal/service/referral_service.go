package service

import (
	"errors"
	"strings"
	"sync"
	"time"

	"invertred/config"
	"invertred/internal/domain"
	"invertred/internal/models"
	"invertred/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrNotFound            = errors.New("member not found")
	ErrNotEligible         = errors.New("member is not pending verification")
	ErrMissingTxRef        = errors.New("transaction reference is required")
	ErrNoPendingCommission = errors.New("no pending commission to pay")
)

// ReferralService is the commission engine: it approves reported payments,
// propagates referral credit up the sponsor chain, settles payouts and
// materializes downlines.
type ReferralService struct {
	mu       sync.Mutex
	users    repository.UserStore
	profiles repository.ProfileStore
	cfg      *config.ReferralConfig
	log      *zap.Logger
	now      func() time.Time
}

func NewReferralService(users repository.UserStore, profiles repository.ProfileStore, cfg *config.ReferralConfig, log *zap.Logger) *ReferralService {
	return &ReferralService{
		users:    users,
		profiles: profiles,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// ApproveMember confirms a reported payment and runs the commission walk.
//
// The member must be PENDING_VERIFICATION, otherwise ErrNotEligible and
// nothing is written. The walk follows sponsor links for at most
// cfg.MaxDepth levels, stops on a broken link, increments every visited
// ancestor's total counter (plus the direct counter at level 0) and accrues
// the per-level commission to affiliates only. All mutated records are
// persisted as one batch; combined with the status precondition this makes
// re-approval a no-op rather than a double credit.
func (s *ReferralService) ApproveMember(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.profiles.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if p.PaymentStatus != domain.StatusPendingVerification {
		return ErrNotEligible
	}

	email := id
	if u, err := s.users.GetByID(id); err == nil {
		email = u.Email
	}

	now := s.now()
	end := now.AddDate(0, 0, s.cfg.SubscriptionDays)
	p.PaymentStatus = domain.StatusApproved
	p.SubscriptionActive = true
	p.ApprovedAt = &now
	p.SubscriptionEnd = &end
	p.Payments = append(p.Payments, models.PaymentRecord{
		ProfileID:   p.ID,
		AmountCents: s.cfg.SubscriptionPriceCents,
		TxRef:       p.PendingTxRef,
		PaidAt:      now,
	})
	p.PendingTxRef = ""

	batch := []*models.Profile{p}
	next := p.SponsorID
	for level := 0; level < s.cfg.MaxDepth && next != nil; level++ {
		sponsor, err := s.profiles.GetByID(*next)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				break // broken chain
			}
			return err
		}
		sponsor.TotalReferrals++
		if level == 0 {
			sponsor.DirectReferrals++
		}
		if sponsor.IsAffiliate() && level < len(s.cfg.CommissionLevelsCents) {
			amount := s.cfg.CommissionLevelsCents[level]
			sponsor.PendingCommCents += amount
			sponsor.Commissions = append(sponsor.Commissions, models.CommissionEntry{
				ProfileID:   sponsor.ID,
				AmountCents: amount,
				Level:       level + 1,
				FromEmail:   email,
				EarnedAt:    now,
			})
		}
		batch = append(batch, sponsor)
		next = sponsor.SponsorID
	}

	if err := s.profiles.SaveAll(batch); err != nil {
		s.log.Error("approval batch write failed", zap.String("member", id), zap.Error(err))
		return err
	}
	s.log.Info("member approved",
		zap.String("member", id),
		zap.Int("ancestors_credited", len(batch)-1),
	)
	return nil
}

// MarkPaid settles the member's pending commission balance against an
// external transaction reference. A blank reference is rejected. Paying a
// zero balance records a zero payout unless the configured policy forbids it.
func (s *ReferralService) MarkPaid(id, txRef string, advance bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(txRef) == "" {
		return ErrMissingTxRef
	}
	p, err := s.profiles.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if p.PendingCommCents == 0 && !s.cfg.AllowZeroPayout {
		return ErrNoPendingCommission
	}
	kind := domain.PayoutRegular
	if advance {
		kind = domain.PayoutAdvance
	}
	p.Payouts = append(p.Payouts, models.CommissionPayout{
		ProfileID:   p.ID,
		AmountCents: p.PendingCommCents,
		TxRef:       txRef,
		Kind:        kind,
		PaidAt:      s.now(),
	})
	p.PendingCommCents = 0
	return s.profiles.Save(p)
}

// SetSubscriptionActive is the admin pause/reactivate switch.
func (s *ReferralService) SetSubscriptionActive(id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.profiles.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	p.SubscriptionActive = active
	return s.profiles.Save(p)
}

// DownlineEntry is one member of a flattened referral network.
type DownlineEntry struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Level         int    `json:"level"`
	Active        bool   `json:"active"`
	DaysRemaining int    `json:"days_remaining"`
	Percent       int    `json:"percent"`
}

// Downline returns all descendants of root up to maxDepth levels,
// depth-first. Sibling order follows store iteration order and is not part
// of the contract.
func (s *ReferralService) Downline(rootID string, maxDepth int) ([]DownlineEntry, error) {
	if _, err := s.profiles.GetByID(rootID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if maxDepth <= 0 || maxDepth > s.cfg.MaxDepth {
		maxDepth = s.cfg.MaxDepth
	}
	emails := s.emailIndex()
	now := s.now()
	var out []DownlineEntry
	var walk func(parentID string, level int) error
	walk = func(parentID string, level int) error {
		if level > maxDepth {
			return nil
		}
		children, err := s.profiles.ListByReferrer(parentID)
		if err != nil {
			return err
		}
		for i := range children {
			child := &children[i]
			out = append(out, DownlineEntry{
				Name:          child.Name,
				Email:         emails[child.ID],
				Level:         level,
				Active:        child.SubscriptionActive,
				DaysRemaining: child.DaysRemaining(now),
				Percent:       s.levelPercent(level),
			})
			if err := walk(child.ID, level+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(rootID, 1); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats aggregates revenue and commission figures over all persisted history.
type Stats struct {
	TotalUsers              int   `json:"total_users"`
	ActiveUsers             int   `json:"active_users"`
	GrossRevenueCents       int64 `json:"gross_revenue_cents"`
	CommissionsPaidCents    int64 `json:"commissions_paid_cents"`
	CommissionsPendingCents int64 `json:"commissions_pending_cents"`
	NetRevenueCents         int64 `json:"net_revenue_cents"`
	ProjectedRevenueCents   int64 `json:"projected_revenue_cents"`
}

func (s *ReferralService) Stats() (*Stats, error) {
	profiles, err := s.profiles.ListAll()
	if err != nil {
		return nil, err
	}
	st := &Stats{TotalUsers: len(profiles)}
	for i := range profiles {
		p := &profiles[i]
		if p.SubscriptionActive {
			st.ActiveUsers++
		}
		for _, pay := range p.Payments {
			st.GrossRevenueCents += pay.AmountCents
		}
		for _, po := range p.Payouts {
			st.CommissionsPaidCents += po.AmountCents
		}
		st.CommissionsPendingCents += p.PendingCommCents
	}
	st.NetRevenueCents = st.GrossRevenueCents - st.CommissionsPaidCents - st.CommissionsPendingCents
	st.ProjectedRevenueCents = int64(st.ActiveUsers) * s.cfg.SubscriptionPriceCents
	return st, nil
}

// levelPercent derives the display percentage for a 1-indexed level from the
// commission table and the subscription price.
func (s *ReferralService) levelPercent(level int) int {
	idx := level - 1
	if idx < 0 || idx >= len(s.cfg.CommissionLevelsCents) || s.cfg.SubscriptionPriceCents == 0 {
		return 0
	}
	return int(s.cfg.CommissionLevelsCents[idx] * 100 / s.cfg.SubscriptionPriceCents)
}

func (s *ReferralService) emailIndex() map[string]string {
	emails := make(map[string]string)
	users, err := s.users.ListAll()
	if err != nil {
		s.log.Warn("email index unavailable", zap.Error(err))
		return emails
	}
	for _, u := range users {
		emails[u.ID] = u.Email
	}
	return emails
}
