package httpapi

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	"go.uber.org/zap"

	"github.com/goliatone/go-studio/components/studio"
	"github.com/goliatone/go-studio/components/studio/commands"
	"github.com/goliatone/go-studio/components/studio/queries"
	"github.com/goliatone/go-studio/pkg/api"
	"github.com/goliatone/go-studio/pkg/export"
)

const defaultMaxMemory = 8 << 20

var (
	errCommandNotConfigured = errors.New("httpapi: command not configured")
	errForbidden            = errors.New("httpapi: admin role required")
)

// ActorFunc resolves who is calling from a plain net/http request.
type ActorFunc func(*http.Request) studio.Actor

// Handlers serves the studio endpoints that need net/http directly:
// multipart uploads, JSON submissions, listing exports and share links.
type Handlers struct {
	Upload    gocommand.Commander[commands.UploadInput]
	Submit    gocommand.Commander[commands.SubmitContentInput]
	Recording gocommand.Commander[commands.CreateRecordingRequestInput]
	Profile   gocommand.Commander[commands.UpdateProfileInput]
	Pages     gocommand.Querier[queries.PageInput, studio.PageView]
	MyContent gocommand.Querier[queries.MyContentInput, studio.PageView]
	Actor     ActorFunc
	// ShareBaseURL is the public site root used for share links.
	ShareBaseURL string
	Avatar       studio.UploadLimits
	Demo         studio.UploadLimits
	MaxMemory    int64
	Logger       *zap.Logger
}

// Register mounts every handler on mux using method patterns.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /uploads/avatar", h.HandleUploadAvatar)
	mux.HandleFunc("POST /uploads/demo", h.HandleUploadDemo)
	mux.HandleFunc("POST /content", h.HandleSubmitContent)
	mux.HandleFunc("POST /recordings", h.HandleCreateRecording)
	mux.HandleFunc("PUT /profile", h.HandleUpdateProfile)
	mux.HandleFunc("GET /export/{slug}", h.HandleExport)
	mux.HandleFunc("GET /share/{id}", h.HandleShare)
}

func (h *Handlers) HandleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, commands.UploadAvatar, cmp.Or(h.Avatar.MaxBytes, studio.AvatarLimits.MaxBytes))
}

func (h *Handlers) HandleUploadDemo(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, commands.UploadDemo, cmp.Or(h.Demo.MaxBytes, studio.DemoLimits.MaxBytes))
}

// upload reads the file field named after kind. The body is capped a little
// above the file limit so multipart overhead still fits.
func (h *Handlers) upload(w http.ResponseWriter, r *http.Request, kind commands.UploadKind, maxBytes int64) {
	if h.Upload == nil {
		writeError(w, http.StatusNotImplemented, errCommandNotConfigured)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
	if err := r.ParseMultipartForm(cmp.Or(h.MaxMemory, defaultMaxMemory)); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = fmt.Errorf("%w: request exceeds %d bytes", studio.ErrFileTooLarge, tooLarge.Limit)
		}
		writeError(w, StatusFor(err), err)
		return
	}
	file, header, err := r.FormFile(string(kind))
	if err != nil {
		err = fmt.Errorf("%w: %s file is required", studio.ErrValidation, kind)
		writeError(w, StatusFor(err), err)
		return
	}
	defer file.Close()

	input := commands.UploadInput{
		Kind: kind,
		File: studio.Upload{
			Field:       string(kind),
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		},
		Actor: h.actor(r),
	}
	var (
		person studio.Person
		demo   studio.Demo
	)
	input.Person, input.Demo = &person, &demo
	if err := h.Upload.Execute(r.Context(), input); err != nil {
		h.log().Warn("upload rejected", zap.String("kind", string(kind)), zap.String("file", header.Filename), zap.Error(err))
		writeError(w, StatusFor(err), err)
		return
	}
	if kind == commands.UploadDemo {
		writeJSON(w, http.StatusCreated, demo)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

func (h *Handlers) HandleSubmitContent(w http.ResponseWriter, r *http.Request) {
	var input commands.SubmitContentInput
	if !decode(w, r, &input.Submission) {
		return
	}
	var item studio.ContentItem
	input.Actor, input.Result = h.actor(r), &item
	if err := run(r, h.Submit, input); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handlers) HandleCreateRecording(w http.ResponseWriter, r *http.Request) {
	var input commands.CreateRecordingRequestInput
	if !decode(w, r, &input.Request) {
		return
	}
	var req studio.RecordingRequest
	input.Actor, input.Result = h.actor(r), &req
	if err := run(r, h.Recording, input); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *Handlers) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var input commands.UpdateProfileInput
	if !decode(w, r, &input.Update) {
		return
	}
	var person studio.Person
	input.Actor, input.Result = h.actor(r), &person
	if err := run(r, h.Profile, input); err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

// HandleExport downloads the filtered listing as PDF (default) or CSV.
// Listings are admin pages, so exports are too.
func (h *Handlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	if h.Pages == nil {
		writeError(w, http.StatusNotImplemented, errCommandNotConfigured)
		return
	}
	if h.actor(r).Role != studio.RoleAdmin {
		writeError(w, StatusFor(errForbidden), errForbidden)
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	slug := r.PathValue("slug")
	view, err := h.Pages.Query(r.Context(), queries.PageInput{Slug: slug, Query: r.URL.Query().Get("q")})
	if err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	body, err := export.Render(format, view.Table.Dataset(), view.Title)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, slug, format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// HandleShare returns the share link of one of the caller's published items.
func (h *Handlers) HandleShare(w http.ResponseWriter, r *http.Request) {
	if h.MyContent == nil {
		writeError(w, http.StatusNotImplemented, errCommandNotConfigured)
		return
	}
	actor := h.actor(r)
	view, err := h.MyContent.Query(r.Context(), queries.MyContentInput{Role: actor.Role})
	if err != nil {
		writeError(w, StatusFor(err), err)
		return
	}
	items, _ := view.Items.([]studio.ContentItem)
	id := r.PathValue("id")
	for _, item := range items {
		if item.ID != id {
			continue
		}
		if item.Status != studio.ContentPublished {
			err := fmt.Errorf("%w: %s is not published", studio.ErrValidation, id)
			writeError(w, StatusFor(err), err)
			return
		}
		share, err := studio.ShareContent(h.ShareBaseURL, item)
		if err != nil {
			writeError(w, StatusFor(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": share.URL, "text": share.Text})
		return
	}
	err = fmt.Errorf("%w: content %s", studio.ErrNotFound, id)
	writeError(w, StatusFor(err), err)
}

// StatusFor maps studio and backend errors onto HTTP status codes.
func StatusFor(err error) int {
	var remote *api.Error
	switch {
	case errors.Is(err, studio.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, studio.ErrFileType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, studio.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, studio.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errCommandNotConfigured):
		return http.StatusNotImplemented
	case errors.Is(err, errForbidden):
		return http.StatusForbidden
	case errors.As(err, &remote):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func run[T any](r *http.Request, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return errCommandNotConfigured
	}
	return cmd.Execute(r.Context(), msg)
}

func (h *Handlers) actor(r *http.Request) studio.Actor {
	if h.Actor == nil {
		return studio.Actor{}
	}
	return h.Actor(r)
}

func (h *Handlers) log() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
