package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"invertred/config"
	"invertred/internal/auth"
	"invertred/internal/domain"
	"invertred/internal/models"
	"invertred/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidCreds    = errors.New("invalid email or password")
	ErrInactiveAccount = errors.New("account not approved or inactive")
)

// AuthService handles registration, login and member self-service
// operations. Approval and payouts live in ReferralService.
type AuthService struct {
	cfg      *config.Config
	users    repository.UserStore
	profiles repository.ProfileStore
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(cfg *config.Config, users repository.UserStore, profiles repository.ProfileStore, log *zap.Logger) *AuthService {
	return &AuthService{cfg: cfg, users: users, profiles: profiles, log: log, now: time.Now}
}

// Register creates the credential and member records. An unknown referral
// code is ignored rather than rejected, the member simply joins as a root.
func (s *AuthService) Register(name, email, password, country, phone, referralCode string, birthDate *time.Time) (*models.User, string, string, error) {
	if _, err := s.users.GetByEmail(email); err == nil {
		return nil, "", "", ErrEmailExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	var sponsorID *string
	if referralCode != "" {
		if sponsor, err := s.profiles.GetByReferralCode(referralCode); err == nil {
			sponsorID = &sponsor.ID
		}
	}

	id := uuid.NewString()
	u := &models.User{ID: id, Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(u); err != nil {
		return nil, "", "", err
	}
	code, err := s.newReferralCode(name)
	if err != nil {
		return nil, "", "", err
	}
	p := &models.Profile{
		ID:            id,
		Name:          name,
		Country:       country,
		Phone:         phone,
		BirthDate:     birthDate,
		Role:          domain.RoleUser,
		AccountType:   domain.AccountAffiliate,
		PaymentStatus: domain.StatusPendingPayment,
		SponsorID:     sponsorID,
		ReferralCode:  code,
	}
	if err := s.profiles.Create(p); err != nil {
		return nil, "", "", err
	}
	s.log.Info("member registered", zap.String("member", id), zap.Bool("referred", sponsorID != nil))

	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, p.Role)
	if err != nil {
		return u, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return u, access, "", err
	}
	return u, access, refresh, nil
}

// Login verifies credentials and refuses members without an active
// subscription. Expiry is applied lazily here: an active member past the
// subscription end is flipped to EXPIRED before the check.
func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	u, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	p, err := s.profiles.GetByID(u.ID)
	if err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	if p.SubscriptionActive && p.SubscriptionEnd != nil && s.now().After(*p.SubscriptionEnd) {
		p.SubscriptionActive = false
		p.PaymentStatus = domain.StatusExpired
		if err := s.profiles.Save(p); err != nil {
			return nil, "", "", err
		}
		s.log.Info("subscription expired at login", zap.String("member", u.ID))
	}
	if !p.SubscriptionActive && !p.IsAdmin() {
		return nil, "", "", ErrInactiveAccount
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, p.Role)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(refreshToken string) (string, string, error) {
	id, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return "", "", err
	}
	u, err := s.users.GetByID(id)
	if err != nil {
		return "", "", auth.ErrInvalidToken
	}
	role := domain.RoleUser
	if p, err := s.profiles.GetByID(id); err == nil {
		role = p.Role
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, role)
	if err != nil {
		return "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// ReportPayment records the member's claimed transaction reference and moves
// them into the verification queue.
func (s *AuthService) ReportPayment(id, txRef string) error {
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
	now := s.now()
	p.PendingTxRef = txRef
	p.PaymentStatus = domain.StatusPendingVerification
	p.ReportedAt = &now
	return s.profiles.Save(p)
}

// SaveWallet stores the member's payout address.
func (s *AuthService) SaveWallet(id, address string) error {
	p, err := s.profiles.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	p.WalletAddress = address
	return s.profiles.Save(p)
}

// RemoveUser deletes both records for an identity. If the credential lookup
// fails nothing is deleted.
func (s *AuthService) RemoveUser(email string) error {
	u, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.users.Delete(u.ID); err != nil {
		return err
	}
	if err := s.profiles.Delete(u.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	s.log.Info("member removed", zap.String("member", u.ID))
	return nil
}

// newReferralCode builds a human-readable code: first name uppercased plus
// three random digits, retried on collision.
func (s *AuthService) newReferralCode(name string) (string, error) {
	prefix := "USR"
	if fields := strings.Fields(name); len(fields) > 0 {
		prefix = strings.ToUpper(fields[0])
	}
	for i := 0; i < 10; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(900))
		if err != nil {
			return "", err
		}
		code := fmt.Sprintf("%s%d", prefix, n.Int64()+100)
		if _, err := s.profiles.GetByReferralCode(code); errors.Is(err, repository.ErrNotFound) {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique referral code")
}
