package handler

import (
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"studentportal/internal/portal"
)

func (h *Handler) ListClasses(c *gin.Context) {
	classes, err := h.catalog.Classes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if classes == nil {
		classes = []portal.ClassInfo{}
	}
	c.JSON(http.StatusOK, gin.H{"classes": classes})
}

func (h *Handler) GetClass(c *gin.Context) {
	grade, err := strconv.Atoi(c.Param("grade"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "grade must be a number"})
		return
	}
	class, err := portal.FindClass(c.Request.Context(), h.catalog, grade)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if class == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "class not found"})
		return
	}
	c.JSON(http.StatusOK, class)
}

func (h *Handler) ListDocuments(c *gin.Context) {
	docs, err := h.library.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

type uploadForm struct {
	Subject string `form:"subject"`
	Grade   string `form:"grade"`
	Type    string `form:"type"`
}

// UploadDocument stores a multipart "file" and lists it on the documents tab.
func (h *Handler) UploadDocument(c *gin.Context) {
	if h.uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "document storage not configured"})
		return
	}
	var form uploadForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
		return
	}
	defer file.Close()

	res, err := h.uploader.Upload(c.Request.Context(), file, header.Filename)
	if err != nil {
		log.Printf("document upload failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "document upload failed"})
		return
	}

	size := header.Size
	if res.Bytes > 0 {
		size = res.Bytes
	}
	doc := h.library.Add(portal.Document{
		Name:    strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)),
		Type:    form.Type,
		Size:    portal.HumanSize(size),
		Subject: form.Subject,
		Grade:   form.Grade,
		URL:     res.SecureURL,
	})
	c.JSON(http.StatusCreated, doc)
}
