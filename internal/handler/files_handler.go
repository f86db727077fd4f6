package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/campus-admin-api/pkg/errors"
	"github.com/noah-isme/campus-admin-api/pkg/response"
)

type signedFileOpener interface {
	OpenSigned(token string) (*os.File, string, error)
}

// FilesHandler streams uploads kept on local disk behind signed, expiring links.
type FilesHandler struct {
	store  signedFileOpener
	logger *zap.Logger
}

// NewFilesHandler constructs the handler. store is nil when objects live in OSS.
func NewFilesHandler(store signedFileOpener, logger *zap.Logger) *FilesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilesHandler{store: store, logger: logger}
}

// Download godoc
// @Summary Download uploaded file
// @Tags Files
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /files/{token} [get]
func (h *FilesHandler) Download(c *gin.Context) {
	if h.store == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "file not found"))
		return
	}
	file, name, err := h.store.OpenSigned(c.Param("token"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "file not found"))
			return
		}
		h.logger.Debug("rejected file token", zap.Error(err))
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "link is invalid or expired"))
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to read file"))
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+name+`"`)
	http.ServeContent(c.Writer, c.Request, name, info.ModTime(), file)
}
