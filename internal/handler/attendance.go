package handler

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"studentportal/internal/attendance"
)

func (h *Handler) ListRecords(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"records": h.att.Records(),
		"syncing": h.att.Syncing(),
	})
}

type scanRequest struct {
	CardID string `json:"card_id"`
}

// Scan records a simulated card swipe. Blank ids are rejected with 422.
func (h *Handler) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, notice, err := h.att.Scan(req.CardID)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "notice": notice})
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": rec, "notice": notice})
}

// ToggleStatus flips a record's status. Card ids are opaque and may contain
// '/', so the id is taken from the JSON body when the path does not carry one.
func (h *Handler) ToggleStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		var req scanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		id = req.CardID
	}
	rec, ok := h.att.ToggleStatus(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"record": rec})
}

func (h *Handler) ClearRecords(c *gin.Context) {
	h.att.Clear()
	c.Status(http.StatusNoContent)
}

// ExportCSV downloads the register for the selected class.
func (h *Handler) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	filename, err := h.att.Export(&buf, c.Query("class"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, attendance.CSVContentType, buf.Bytes())
}

type syncRequest struct {
	WebhookURL string `json:"webhook_url"`
	Class      string `json:"class"`
}

// Sync forwards the register to a webhook. 202 means the request was sent,
// not that the endpoint accepted it.
func (h *Handler) Sync(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	webhook := req.WebhookURL
	if strings.TrimSpace(webhook) == "" {
		webhook = h.opts.DefaultWebhook
	}

	// The webhook may take longer than the server's write timeout; the caller
	// must still get the outcome.
	if err := http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		log.Printf("sync: clear write deadline: %v", err)
	}

	notice, err := h.att.Sync(c.Request.Context(), webhook, req.Class, h.origin(c))
	if err == nil {
		c.JSON(http.StatusAccepted, gin.H{"sent": true, "notice": notice})
		return
	}

	var (
		cerr *attendance.ConfigError
		serr *attendance.SyncError
	)
	switch {
	case errors.Is(err, attendance.ErrNoRecords):
		c.JSON(http.StatusOK, gin.H{"sent": false, "warning": true, "notice": notice})
	case errors.As(err, &cerr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "notice": notice})
	case errors.Is(err, attendance.ErrSyncInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "notice": notice})
	case errors.As(err, &serr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "notice": notice})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "notice": notice})
	}
}

// origin is the dashboard's origin as reported by the browser.
func (h *Handler) origin(c *gin.Context) string {
	if o := c.GetHeader("Origin"); o != "" {
		return o
	}
	return h.opts.PublicOrigin
}
