package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

const (
	AccountAffiliate = "AFFILIATE"
	AccountMember    = "MEMBER"
)

// Payment status lifecycle:
// PENDING_PAYMENT -> PENDING_VERIFICATION -> APPROVED,
// APPROVED <-> PAUSED (admin flag flip), APPROVED -> EXPIRED (lazy, at login).
const (
	StatusPendingPayment      = "PENDING_PAYMENT"
	StatusPendingVerification = "PENDING_VERIFICATION"
	StatusApproved            = "APPROVED"
	StatusPaused              = "PAUSED"
	StatusExpired             = "EXPIRED"
)

const (
	PayoutRegular = "REGULAR"
	PayoutAdvance = "ADVANCE"
)

// RankTier maps a minimum total-referral count to a title.
type RankTier struct {
	Min   int
	Title string
}

// RankTableLegacy is the ten-tier table used by the admin panel.
// Tiers are ordered by descending threshold; the last entry is the floor.
var RankTableLegacy = []RankTier{
	{2000, "CEO Máximo"},
	{1000, "CEO"},
	{500, "Presidente"},
	{250, "Director"},
	{100, "Gerente"},
	{50, "Supervisor"},
	{30, "Coordinador"},
	{15, "Asistente"},
	{1, "Líder"},
	{0, "Usuario"},
}

// RankTableCompact is the six-tier table used by the member dashboard variant.
var RankTableCompact = []RankTier{
	{1000, "CEO Máximo"},
	{500, "Director Ejecutivo Global"},
	{100, "Gerente"},
	{30, "Arquitecto de Redes"},
	{10, "Estratega"},
	{0, "Miembro"},
}
