package service

import (
	"errors"
	"testing"
	"time"

	"invertred/config"
	"invertred/internal/domain"
	"invertred/internal/repository"

	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access",
			RefreshSecret: "test-refresh",
			AccessExpiry:  time.Hour,
			RefreshExpiry: time.Hour,
			Issuer:        "test",
		},
		Referral: *testReferralConfig(),
	}
}

func newAuthFixture(t *testing.T) (*AuthService, *repository.MemoryUserStore, *repository.MemoryProfileStore) {
	t.Helper()
	users := repository.NewMemoryUserStore()
	profiles := repository.NewMemoryProfileStore()
	svc := NewAuthService(testConfig(), users, profiles, zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc, users, profiles
}

func TestRegisterCreatesBothRecords(t *testing.T) {
	svc, users, profiles := newAuthFixture(t)

	u, access, refresh, err := svc.Register("Ana García", "ana@test.local", "secret-pass", "MX", "555-0100", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if access == "" || refresh == "" {
		t.Error("missing tokens")
	}
	if _, err := users.GetByEmail("ana@test.local"); err != nil {
		t.Fatalf("credential record missing: %v", err)
	}
	p, err := profiles.GetByID(u.ID)
	if err != nil {
		t.Fatalf("profile record missing: %v", err)
	}
	if p.PaymentStatus != domain.StatusPendingPayment {
		t.Errorf("status = %s, want PENDING_PAYMENT", p.PaymentStatus)
	}
	if p.AccountType != domain.AccountAffiliate {
		t.Errorf("account type = %s, want AFFILIATE", p.AccountType)
	}
	if p.SponsorID != nil {
		t.Errorf("sponsor = %v, want nil for no code", *p.SponsorID)
	}
	if p.ReferralCode == "" {
		t.Error("no referral code assigned")
	}
}

func TestRegisterLinksSponsorByCode(t *testing.T) {
	svc, _, profiles := newAuthFixture(t)
	sponsor, _, _, err := svc.Register("Beto Ruiz", "beto@test.local", "secret-pass", "", "", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	sp, _ := profiles.GetByID(sponsor.ID)

	u, _, _, err := svc.Register("Carla Díaz", "carla@test.local", "secret-pass", "", "", sp.ReferralCode, nil)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := profiles.GetByID(u.ID)
	if p.SponsorID == nil || *p.SponsorID != sponsor.ID {
		t.Errorf("sponsor = %v, want %s", p.SponsorID, sponsor.ID)
	}

	// An unknown code is ignored, not an error.
	u2, _, _, err := svc.Register("Dani Sol", "dani@test.local", "secret-pass", "", "", "NOSUCHCODE", nil)
	if err != nil {
		t.Fatal(err)
	}
	p2, _ := profiles.GetByID(u2.ID)
	if p2.SponsorID != nil {
		t.Errorf("unknown code linked a sponsor: %v", *p2.SponsorID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	if _, _, _, err := svc.Register("Ana", "ana@test.local", "secret-pass", "", "", "", nil); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := svc.Register("Otra Ana", "ana@test.local", "secret-pass", "", "", "", nil); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("got %v, want ErrEmailExists", err)
	}
}

func TestLoginRefusesInactive(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	if _, _, _, err := svc.Register("Ana", "ana@test.local", "secret-pass", "", "", "", nil); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := svc.Login("ana@test.local", "secret-pass"); !errors.Is(err, ErrInactiveAccount) {
		t.Fatalf("got %v, want ErrInactiveAccount", err)
	}
	if _, _, _, err := svc.Login("ana@test.local", "wrong"); !errors.Is(err, ErrInvalidCreds) {
		t.Fatalf("got %v, want ErrInvalidCreds", err)
	}
	if _, _, _, err := svc.Login("nobody@test.local", "secret-pass"); !errors.Is(err, ErrInvalidCreds) {
		t.Fatalf("got %v, want ErrInvalidCreds", err)
	}
}

func TestLoginLazyExpiry(t *testing.T) {
	svc, _, profiles := newAuthFixture(t)
	u, _, _, err := svc.Register("Ana", "ana@test.local", "secret-pass", "", "", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := profiles.GetByID(u.ID)
	p.PaymentStatus = domain.StatusApproved
	p.SubscriptionActive = true
	past := testNow.AddDate(0, 0, -1)
	p.SubscriptionEnd = &past
	if err := profiles.Save(p); err != nil {
		t.Fatal(err)
	}

	if _, _, _, err := svc.Login("ana@test.local", "secret-pass"); !errors.Is(err, ErrInactiveAccount) {
		t.Fatalf("got %v, want ErrInactiveAccount after expiry", err)
	}
	p, _ = profiles.GetByID(u.ID)
	if p.PaymentStatus != domain.StatusExpired || p.SubscriptionActive {
		t.Errorf("profile after lazy expiry = %s active=%v, want EXPIRED inactive", p.PaymentStatus, p.SubscriptionActive)
	}
}

func TestLoginActiveMember(t *testing.T) {
	svc, _, profiles := newAuthFixture(t)
	u, _, _, err := svc.Register("Ana", "ana@test.local", "secret-pass", "", "", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := profiles.GetByID(u.ID)
	p.PaymentStatus = domain.StatusApproved
	p.SubscriptionActive = true
	future := testNow.AddDate(0, 0, 10)
	p.SubscriptionEnd = &future
	if err := profiles.Save(p); err != nil {
		t.Fatal(err)
	}

	_, access, refresh, err := svc.Login("ana@test.local", "secret-pass")
	if err != nil {
		t.Fatal(err)
	}
	if access == "" || refresh == "" {
		t.Error("missing tokens on successful login")
	}
	newAccess, newRefresh, err := svc.Refresh(refresh)
	if err != nil {
		t.Fatal(err)
	}
	if newAccess == "" || newRefresh == "" {
		t.Error("missing tokens on refresh")
	}
}

func TestReportPayment(t *testing.T) {
	svc, _, profiles := newAuthFixture(t)
	u, _, _, err := svc.Register("Ana", "ana@test.local", "secret-pass", "", "", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.ReportPayment(u.ID, "   "); !errors.Is(err, ErrMissingTxRef) {
		t.Fatalf("got %v, want ErrMissingTxRef", err)
	}
	if err := svc.ReportPayment(u.ID, "tx-777"); err != nil {
		t.Fatal(err)
	}
	p, _ := profiles.GetByID(u.ID)
	if p.PaymentStatus != domain.StatusPendingVerification || p.PendingTxRef != "tx-777" || p.ReportedAt == nil {
		t.Errorf("profile after report = %+v", p)
	}
	if err := svc.ReportPayment("missing", "tx-777"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestRemoveUserBothOrNeither(t *testing.T) {
	svc, users, profiles := newAuthFixture(t)
	u, _, _, err := svc.Register("Ana", "ana@test.local", "secret-pass", "", "", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.RemoveUser("nobody@test.local"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if _, err := users.GetByID(u.ID); err != nil {
		t.Error("credential deleted on failed lookup")
	}

	if err := svc.RemoveUser("ana@test.local"); err != nil {
		t.Fatal(err)
	}
	if _, err := users.GetByID(u.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Error("credential record survived removal")
	}
	if _, err := profiles.GetByID(u.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Error("profile record survived removal")
	}
}

func TestSaveWallet(t *testing.T) {
	svc, _, profiles := newAuthFixture(t)
	u, _, _, err := svc.Register("Ana", "ana@test.local", "secret-pass", "", "", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.SaveWallet(u.ID, "bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"); err != nil {
		t.Fatal(err)
	}
	p, _ := profiles.GetByID(u.ID)
	if p.WalletAddress == "" {
		t.Error("wallet address not stored")
	}
	if err := svc.SaveWallet("missing", "addr"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}
