package handler

import (
	"errors"
	"net/http"
	"time"

	"invertred/config"
	"invertred/internal/middleware"
	"invertred/internal/repository"
	"invertred/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MeHandler serves the member's own dashboard, network, payment report and
// wallet endpoints.
type MeHandler struct {
	authSvc     *service.AuthService
	referralSvc *service.ReferralService
	profiles    repository.ProfileStore
	cfg         *config.ReferralConfig
	log         *zap.Logger
}

func NewMeHandler(authSvc *service.AuthService, referralSvc *service.ReferralService, profiles repository.ProfileStore, cfg *config.ReferralConfig, log *zap.Logger) *MeHandler {
	return &MeHandler{authSvc: authSvc, referralSvc: referralSvc, profiles: profiles, cfg: cfg, log: log}
}

// Dashboard returns the member's own summary: rank, subscription, counters,
// pending commissions and accrual history.
func (h *MeHandler) Dashboard(c *gin.Context) {
	id := middleware.GetUserID(c)
	p, err := h.profiles.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
			return
		}
		h.log.Error("dashboard load failed", zap.String("member", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"name":                     p.Name,
		"rank":                     service.Rank(h.cfg.RankTable, p.TotalReferrals),
		"subscription_active":      p.SubscriptionActive,
		"days_remaining":           p.DaysRemaining(time.Now()),
		"pending_commission_cents": p.PendingCommCents,
		"direct_referrals":         p.DirectReferrals,
		"total_referrals":          p.TotalReferrals,
		"referral_code":            p.ReferralCode,
		"wallet_address":           p.WalletAddress,
		"commission_history":       p.Commissions,
	})
}

// Network returns the member's flattened downline.
func (h *MeHandler) Network(c *gin.Context) {
	id := middleware.GetUserID(c)
	entries, err := h.referralSvc.Downline(id, h.cfg.MaxDepth)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
			return
		}
		h.log.Error("downline failed", zap.String("member", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

type ReportPaymentRequest struct {
	TxRef string `json:"tx_ref" binding:"required"`
}

// ReportPayment moves the member into the verification queue.
func (h *MeHandler) ReportPayment(c *gin.Context) {
	var req ReportPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := middleware.GetUserID(c)
	if err := h.authSvc.ReportPayment(id, req.TxRef); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrMissingTxRef):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.log.Error("report payment failed", zap.String("member", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment reported, pending verification"})
}

type SaveWalletRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required,wallet"`
}

// SaveWallet stores the member's payout address.
func (h *MeHandler) SaveWallet(c *gin.Context) {
	var req SaveWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet address"})
		return
	}
	id := middleware.GetUserID(c)
	if err := h.authSvc.SaveWallet(id, req.WalletAddress); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("save wallet failed", zap.String("member", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "wallet address saved"})
}
