package handler

import (
	"errors"
	"net/http"

	"invertred/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	adminSvc    *service.AdminService
	referralSvc *service.ReferralService
	authSvc     *service.AuthService
	log         *zap.Logger
}

func NewAdminHandler(adminSvc *service.AdminService, referralSvc *service.ReferralService, authSvc *service.AuthService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc, referralSvc: referralSvc, authSvc: authSvc, log: log}
}

// ListMembers returns all members, pending verification first.
func (h *AdminHandler) ListMembers(c *gin.Context) {
	rows, err := h.adminSvc.ListMembers()
	if err != nil {
		h.log.Error("list members failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// MemberDetail returns one member with rank and downline.
func (h *AdminHandler) MemberDetail(c *gin.Context) {
	detail, err := h.adminSvc.MemberDetail(c.Param("email"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("member detail failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Approve confirms a reported payment and runs the commission walk.
func (h *AdminHandler) Approve(c *gin.Context) {
	id, err := h.adminSvc.IDByEmail(c.Param("email"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("resolve member failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if err := h.referralSvc.ApproveMember(id); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotEligible):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.log.Error("approve failed", zap.String("member", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "member approved"})
}

// Pause and Reactivate flip the subscription flag.
func (h *AdminHandler) Pause(c *gin.Context)      { h.setActive(c, false) }
func (h *AdminHandler) Reactivate(c *gin.Context) { h.setActive(c, true) }

func (h *AdminHandler) setActive(c *gin.Context, active bool) {
	id, err := h.adminSvc.IDByEmail(c.Param("email"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("resolve member failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if err := h.referralSvc.SetSubscriptionActive(id, active); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("set active failed", zap.String("member", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "subscription updated"})
}

// RemoveMember deletes both the credential and profile record (deny/delete).
func (h *AdminHandler) RemoveMember(c *gin.Context) {
	email := c.Param("email")
	if err := h.authSvc.RemoveUser(email); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("remove member failed", zap.String("email", email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "member removed"})
}

// PayoutsDue lists affiliates owed a commission payout.
func (h *AdminHandler) PayoutsDue(c *gin.Context) {
	due, err := h.adminSvc.PayoutsDue()
	if err != nil {
		h.log.Error("payouts due failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, due)
}

type MarkPaidRequest struct {
	TxRef   string `json:"tx_ref" binding:"required"`
	Advance bool   `json:"advance"`
}

// MarkPaid settles a member's pending commission balance.
func (h *AdminHandler) MarkPaid(c *gin.Context) {
	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tx_ref is required"})
		return
	}
	id := c.Param("id")
	if err := h.referralSvc.MarkPaid(id, req.TxRef, req.Advance); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrMissingTxRef), errors.Is(err, service.ErrNoPendingCommission):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.log.Error("mark paid failed", zap.String("member", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "commission marked as paid"})
}

// PayoutHistory lists settled payouts, newest first.
func (h *AdminHandler) PayoutHistory(c *gin.Context) {
	history, err := h.adminSvc.PayoutHistory()
	if err != nil {
		h.log.Error("payout history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, history)
}

// Stats returns the aggregate revenue and commission figures.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.referralSvc.Stats()
	if err != nil {
		h.log.Error("stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
