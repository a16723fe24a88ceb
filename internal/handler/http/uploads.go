package http

import (
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/cmlabs-hris/hrms-ess-backend/internal/domain/session"
	"github.com/cmlabs-hris/hrms-ess-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type UploadsHandler interface {
	Serve(w http.ResponseWriter, r *http.Request)
}

type UploadsHandlerImpl struct {
	files http.FileSystem
}

var _ UploadsHandler = (*UploadsHandlerImpl)(nil)

func NewUploadsHandler(dir string) *UploadsHandlerImpl {
	return &UploadsHandlerImpl{files: http.Dir(dir)}
}

// Serve streams a stored clock photo. Keys are laid out as
// clock/{tenant}/{date}/..., and only the caller's own tenant prefix is
// readable. Directories are never listed.
func (h *UploadsHandlerImpl) Serve(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		response.HandleError(w, session.ErrNoTenantContext)
		return
	}

	key := strings.TrimPrefix(path.Clean("/"+chi.URLParam(r, "*")), "/")
	if sess.TenantID == "" || !strings.HasPrefix(key, path.Join("clock", sess.TenantID)+"/") {
		response.NotFound(w, "File not found")
		return
	}

	f, err := h.files.Open("/" + key)
	if err != nil {
		response.NotFound(w, "File not found")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		response.NotFound(w, "File not found")
		return
	}

	slog.Debug("Serving upload", "tenant_id", sess.TenantID, "key", key)
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
