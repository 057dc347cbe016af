package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"studentportal/internal/attendance"
	"studentportal/internal/cloudinary"
	"studentportal/internal/portal"
	"studentportal/internal/session"
)

// Uploader stores uploaded documents. *cloudinary.Client satisfies it.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (*cloudinary.UploadResult, error)
}

// Options carries the settings handlers need from config.
type Options struct {
	JWTIssuer      string
	JWTSigningKey  string
	SessionTTL     time.Duration
	DefaultWebhook string
	PublicOrigin   string
}

// HealthCheck reports dependency health by name.
type HealthCheck func(ctx context.Context) map[string]bool

type Handler struct {
	att      *attendance.Service
	sessions session.Store
	catalog  portal.Catalog
	library  *portal.Library
	uploader Uploader // nil if uploads are not configured
	health   HealthCheck
	opts     Options
}

func New(att *attendance.Service, sessions session.Store, catalog portal.Catalog, uploader Uploader, health HealthCheck, opts Options) *Handler {
	return &Handler{
		att:      att,
		sessions: sessions,
		catalog:  catalog,
		library:  portal.NewLibrary(catalog),
		uploader: uploader,
		health:   health,
		opts:     opts,
	}
}

// Mount registers the API on r. auth guards every route except login;
// limit runs after auth so it can key on the session.
func (h *Handler) Mount(r gin.IRouter, auth, limit gin.HandlerFunc) {
	r.GET("/healthz", h.Healthz)

	v1 := r.Group("/v1")
	v1.POST("/login", limit, h.Login)

	authed := v1.Group("", auth, limit)
	{
		authed.POST("/logout", h.Logout)
		authed.GET("/profile", h.Profile)

		authed.GET("/classes", h.ListClasses)
		authed.GET("/classes/:grade", h.GetClass)

		authed.GET("/documents", h.ListDocuments)
		authed.POST("/documents", h.UploadDocument)

		authed.GET("/attendance", h.ListRecords)
		authed.POST("/attendance/scans", h.Scan)
		authed.POST("/attendance/toggle", h.ToggleStatus)
		authed.POST("/attendance/records/:id/toggle", h.ToggleStatus)
		authed.DELETE("/attendance/records", h.ClearRecords)
		authed.GET("/attendance/export.csv", h.ExportCSV)
		authed.POST("/attendance/sync", h.Sync)
	}
}

// ---------- Health ----------

func (h *Handler) Healthz(c *gin.Context) {
	body := gin.H{"status": "ok"}
	status := http.StatusOK
	if h.health != nil {
		for name, ok := range h.health(c.Request.Context()) {
			body[name] = ok
			if !ok {
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
			}
		}
	}
	c.JSON(status, body)
}
