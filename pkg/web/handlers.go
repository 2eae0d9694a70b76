package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gazhub/offline-worker/pkg/bridge"
	"github.com/gazhub/offline-worker/pkg/cache"
	"github.com/gazhub/offline-worker/pkg/database"
	"github.com/gazhub/offline-worker/pkg/e"
	"github.com/gazhub/offline-worker/pkg/lifecycle"
	"github.com/gazhub/offline-worker/pkg/s"
	"github.com/gazhub/offline-worker/pkg/syncer"
	"github.com/gazhub/offline-worker/pkg/widget"
)

const maxStagedFileSize = 4 << 20 // order intake files are small CSV/text

type Handlers struct {
	Database  database.Backend
	Drainer   *syncer.Drainer
	Widget    *widget.Refresher
	Lifecycle *lifecycle.Controller
	Bridge    *bridge.Bridge
	Cache     *cache.Router

	PushSecret   string
	DefaultTitle string
	DefaultBody  string
	IntakeTarget string // page the intake redirect points at
	Debug        bool
}

// SyncTrigger is the background-sync entry point. Both accepted tags drain
// the same queue.
func (h *Handlers) SyncTrigger(c *gin.Context) {
	tag := c.Param("tag")
	if !syncer.ValidTag(tag) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sync tag"})
		return
	}

	result, err := h.Drainer.Drain(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to drain action queue"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// PeriodicSyncTrigger fires the widget refresh.
func (h *Handlers) PeriodicSyncTrigger(c *gin.Context) {
	if c.Param("tag") != widget.TagWidgetUpdate {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown periodicsync tag"})
		return
	}

	h.Widget.Refresh(c.Request.Context())
	c.Data(http.StatusNoContent, gin.MIMEJSON, nil)
}

func (h *Handlers) Push(c *gin.Context) {
	h.Bridge.HandlePush(c, h.DefaultTitle, h.DefaultBody)
}

func (h *Handlers) VersionEndpoint(c *gin.Context) {
	version := h.Lifecycle.Version()
	c.JSON(http.StatusOK, s.WorkerMessage{Type: s.MsgVersionInfo, Version: &version})
}

// OrderIntake is the file-handler entry point: the submitted file is staged
// in the durable store and the client is redirected to the order page with
// the staged record's id.
func (h *Handlers) OrderIntake(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}
	if header.Size > maxStagedFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	fp, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer fp.Close()

	content, err := io.ReadAll(fp)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}

	now := time.Now().UTC()
	file := s.StagedFile{
		ID:          fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8]),
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     string(content),
		Timestamp:   now.Format(time.RFC3339),
	}

	if err = h.Database.StageFile(file); err != nil {
		log.Error().Err(err).Str("name", file.Name).Msg("Failed to stage uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to stage file"})
		return
	}

	c.Redirect(http.StatusSeeOther, h.IntakeTarget+"?fileId="+file.ID)
}

// StagedFileEndpoint hands a staged file to the redirected page exactly
// once; the record is deleted on read.
func (h *Handlers) StagedFileEndpoint(c *gin.Context) {
	id := c.Param("fileid")

	file, err := h.Database.GetStagedFile(id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		} else {
			log.Error().Err(err).Str("file_id", id).Msg("Failed to load staged file")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load staged file"})
		}
		return
	}

	if err = h.Database.DeleteStagedFile(id); err != nil {
		log.Warn().Err(err).Str("file_id", id).Msg("Failed to delete staged file after read")
	}

	c.JSON(http.StatusOK, file)
}
