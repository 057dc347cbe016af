package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studentportal/internal/attendance"
	"studentportal/internal/auth"
	"studentportal/internal/portal"
)

// Login accepts any complete form and starts a session for the mock profile.
func (h *Handler) Login(c *gin.Context) {
	var req portal.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := portal.NewProfile(req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, portal.ErrMissingFields) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error":  err.Error(),
			"notice": attendance.Notice{Title: "Error", Description: "Please fill in all fields", Variant: attendance.VariantDestructive},
		})
		return
	}

	sid := uuid.NewString()
	if err := h.sessions.Save(c.Request.Context(), sid, profile, h.opts.SessionTTL); err != nil {
		log.Printf("session save failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session store unavailable"})
		return
	}

	tok, err := auth.Issue(sid, "student", h.opts.JWTIssuer, h.opts.JWTSigningKey, h.opts.SessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      tok.Value,
		"expires_at": tok.ExpiresAt.Unix(),
		"profile":    profile,
		"notice":     attendance.Notice{Title: "Login Successful", Description: "Welcome to your dashboard!", Variant: attendance.VariantDefault},
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), c.GetString(auth.SessionIDKey)); err != nil {
		log.Printf("session delete failed: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{
		"notice": attendance.Notice{Title: "Logged out", Description: "You have been successfully logged out.", Variant: attendance.VariantDefault},
	})
}

func (h *Handler) Profile(c *gin.Context) {
	profile, ok := auth.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return
	}
	c.JSON(http.StatusOK, profile)
}
