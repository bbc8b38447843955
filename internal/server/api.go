package server

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/labelgrid/internal/models"
	"github.com/desertthunder/labelgrid/internal/shared"
	"github.com/desertthunder/labelgrid/internal/workspace"
)

const maxBodyBytes = 1 << 20

// CreateLabelRequest is the body of POST /api/create_label.
type CreateLabelRequest struct {
	Name string `json:"name"`
	Path string `json:"path"` // parent folder, "" for the workspace root
}

// CreateLabelResponse is returned when a label folder was created.
type CreateLabelResponse struct {
	Message string       `json:"message"`
	Label   models.Label `json:"label"`
}

// AssignRequest is the body of POST /api/assign_label.
type AssignRequest struct {
	Files     []string `json:"files"`
	LabelPath string   `json:"labelPath"`
}

// APIHandler serves the workspace endpoints under /api/.
type APIHandler struct {
	ws     *workspace.Workspace
	logger *log.Logger
}

// NewAPIHandler creates an [APIHandler] backed by ws.
func NewAPIHandler(ws *workspace.Workspace, logger *log.Logger) *APIHandler {
	return &APIHandler{ws: ws, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *APIHandler) Routes() []string {
	return []string{"/api/tree", "/api/content", "/api/create_label", "/api/assign_label"}
}

// ServeHTTP dispatches on path and enforces each endpoint's method.
func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/tree":
		h.get(w, r, h.tree)
	case "/api/content":
		h.get(w, r, h.content)
	case "/api/create_label":
		h.post(w, r, h.createLabel)
	case "/api/assign_label":
		h.post(w, r, h.assign)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *APIHandler) get(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	fn(w, r)
}

func (h *APIHandler) post(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	fn(w, r)
}

func (h *APIHandler) tree(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []models.TreeNode{h.ws.Tree()})
}

func (h *APIHandler) content(w http.ResponseWriter, r *http.Request) {
	content, err := h.ws.Content(r.URL.Query().Get("path"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, content)
}

func (h *APIHandler) createLabel(w http.ResponseWriter, r *http.Request) {
	var req CreateLabelRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	label, err := h.ws.CreateLabel(req.Path, req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CreateLabelResponse{
		Message: fmt.Sprintf("Label %q created.", label.Name),
		Label:   *label,
	})
}

func (h *APIHandler) assign(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.ws.Assign(r.Context(), req.Files, req.LabelPath)
	if result == nil {
		h.fail(w, r, err)
		return
	}
	if err != nil {
		// Moves made before the request was cancelled are still reported.
		h.logger.Warn("assign request cancelled", "moved", result.Moved, "error", err, "request_id", RequestIDFrom(r.Context()))
	}
	writeJSON(w, http.StatusOK, result)
}

// fail writes err with its mapped status. Unexpected errors are logged and hidden from the client.
func (h *APIHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", RequestIDFrom(r.Context()))
		msg = "internal server error"
	}
	writeError(w, status, msg)
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", shared.ErrInvalidInput, err)
	}
	return nil
}

// ThumbnailHandler serves the thumbnail cache directory.
type ThumbnailHandler struct {
	files http.Handler
}

// NewThumbnailHandler serves files from dir under [workspace.ThumbnailURLPrefix].
func NewThumbnailHandler(dir string) *ThumbnailHandler {
	return &ThumbnailHandler{
		files: http.StripPrefix(workspace.ThumbnailURLPrefix, http.FileServer(noListing{http.Dir(dir)})),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *ThumbnailHandler) Routes() []string {
	return []string{workspace.ThumbnailURLPrefix}
}

func (h *ThumbnailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	h.files.ServeHTTP(w, r)
}

// noListing hides directory indexes from [http.FileServer].
type noListing struct {
	fs http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	if info, err := f.Stat(); err == nil && info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
