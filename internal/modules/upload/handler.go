package upload

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emlakpro/core/internal/config"
	"github.com/emlakpro/core/internal/models"
	"github.com/emlakpro/core/internal/modules/media"
	"github.com/emlakpro/core/internal/pkg/response"
)

// maxRawUploadBytes caps the incoming file before normalization.
const maxRawUploadBytes = 15 << 20

// Handler serves the photo upload surface of the panel.
type Handler struct {
	store    media.Store
	manager  *Manager
	resolver *FolderResolver
	cfg      config.UploadConfig
	log      *zap.Logger
}

func NewHandler(store media.Store, manager *Manager, resolver *FolderResolver, cfg config.UploadConfig, log *zap.Logger) *Handler {
	return &Handler{store: store, manager: manager, resolver: resolver, cfg: cfg, log: log}
}

// Upload handles POST /upload. The multipart form carries the file plus
// propertyType, listingId (draft id), index and an optional title and
// existingFolder. Oversized bodies get 413, slow uploads 408.
func (h *Handler) Upload(c *gin.Context) {
	propertyType := models.PropertyType(strings.TrimSpace(c.PostForm("propertyType")))
	if !propertyType.Valid() {
		response.BadRequest(c, "Geçersiz ilan tipi")
		return
	}
	draftID := strings.TrimSpace(c.PostForm("listingId"))
	if draftID == "" {
		response.BadRequest(c, "listingId gerekli")
		return
	}
	index, err := strconv.Atoi(c.PostForm("index"))
	if err != nil || index < 0 {
		response.BadRequest(c, "Geçersiz fotoğraf sırası")
		return
	}
	title := strings.TrimSpace(c.PostForm("title"))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Dosya bulunamadı")
		return
	}
	if fileHeader.Size > maxRawUploadBytes {
		response.PayloadTooLarge(c, "Dosya boyutu çok büyük")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxRawUploadBytes+1))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if len(data) > maxRawUploadBytes {
		response.PayloadTooLarge(c, "Dosya boyutu çok büyük")
		return
	}

	normalized, _, err := media.Normalize(data, media.NormalizeOptions{
		MaxPixelEdge: h.cfg.MaxPixelEdge,
		MaxEdge:      h.cfg.NormalizeMaxEdge,
		JPEGQuality:  h.cfg.JPEGQuality,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(),
		uploadTimeout(h.cfg.TimeoutSeconds))
	defer cancel()

	session := h.manager.Session(draftID)
	if existing := strings.Trim(c.PostForm("existingFolder"), "/"); existing != "" {
		session.SetFolder(existing)
		h.resolver.Reassign(ctx, string(propertyType), draftID, existing)
	} else if session.Folder() == "" {
		session.SetFolder(h.resolver.Resolve(ctx, string(propertyType), draftID, title))
	}

	item, err := session.Add(index, objectFileName(index, fileHeader.Filename), title, normalized)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := session.Upload(ctx, h.store, item); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			response.RequestTimeout(c, "Yükleme zaman aşımına uğradı")
			return
		}
		h.log.Error("photo upload failed",
			zap.String("draft_id", draftID), zap.Int("index", index), zap.Error(err))
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"id":       item.RemoteID,
		"url":      item.RemoteURL,
		"index":    item.Index,
		"folder":   session.Folder(),
		"fileName": item.FileName,
	})
}

// DeleteObject handles DELETE /storage/delete?id=. The removal is best
// effort; deleted is false only when a stored copy survived every
// removal strategy.
func (h *Handler) DeleteObject(c *gin.Context) {
	objectID := strings.TrimSpace(c.Query("id"))
	if objectID == "" {
		response.BadRequest(c, "id gerekli")
		return
	}

	deleted := h.store.DeleteObject(c.Request.Context(), objectID)
	if !deleted {
		h.log.Warn("storage object removal failed", zap.String("object_id", objectID))
	}

	if draftID := strings.TrimSpace(c.Query("listingId")); draftID != "" {
		if session, ok := h.manager.Peek(draftID); ok {
			session.MarkDeleted(objectID)
		}
	}

	response.OK(c, gin.H{"deleted": deleted})
}

// Retry handles POST /upload/retry. Only items that previously failed are
// eligible; the session keeps the raw bytes for exactly this case.
func (h *Handler) Retry(c *gin.Context) {
	var req struct {
		ListingID string `json:"listingId" binding:"required"`
		Index     int    `json:"index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "listingId gerekli")
		return
	}

	session, ok := h.manager.Peek(req.ListingID)
	if !ok {
		response.NotFoundMsg(c, "Yükleme oturumu bulunamadı")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(),
		uploadTimeout(h.cfg.TimeoutSeconds))
	defer cancel()

	if err := session.Retry(ctx, h.store, req.Index); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"items": session.Items()})
}

// Remove handles DELETE /upload/remove?listingId=&index=. The photo
// leaves the session and its stored copy is removed right away.
func (h *Handler) Remove(c *gin.Context) {
	draftID := strings.TrimSpace(c.Query("listingId"))
	if draftID == "" {
		response.BadRequest(c, "listingId gerekli")
		return
	}
	index, err := strconv.Atoi(c.Query("index"))
	if err != nil || index < 0 {
		response.BadRequest(c, "Geçersiz fotoğraf sırası")
		return
	}

	session, ok := h.manager.Peek(draftID)
	if !ok {
		response.NotFoundMsg(c, "Yükleme oturumu bulunamadı")
		return
	}

	deleted, err := session.Remove(c.Request.Context(), h.store, index)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": deleted, "items": session.Items()})
}

// Reorder handles PUT /upload/reorder. The order slice lists the current
// item indexes in their new sequence; position zero becomes the cover.
func (h *Handler) Reorder(c *gin.Context) {
	var req struct {
		ListingID string `json:"listingId" binding:"required"`
		Order     []int  `json:"order" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "listingId ve order gerekli")
		return
	}

	session, ok := h.manager.Peek(req.ListingID)
	if !ok {
		response.NotFoundMsg(c, "Yükleme oturumu bulunamadı")
		return
	}

	session.Reorder(req.Order)
	response.OK(c, gin.H{"items": session.Items()})
}

// Attach handles POST /upload/attach. Edit flows use it to pull a
// listing's already-stored photos into the session so reorder and commit
// treat them like new uploads.
func (h *Handler) Attach(c *gin.Context) {
	var req struct {
		ListingID string `json:"listingId" binding:"required"`
		Index     int    `json:"index"`
		ID        string `json:"id" binding:"required"`
		URL       string `json:"url"`
		Title     string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "listingId ve id gerekli")
		return
	}

	session := h.manager.Session(req.ListingID)
	if session.Folder() == "" {
		if folder := folderOfObject(req.ID); folder != "" {
			session.SetFolder(folder)
		}
	}

	url := req.URL
	if url == "" {
		url = h.store.URLFor(req.ID)
	}
	item, err := session.AttachExisting(req.Index, req.ID, url, req.Title)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{
		"id":     item.RemoteID,
		"url":    item.RemoteURL,
		"index":  item.Index,
		"folder": session.Folder(),
	})
}
