package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/stackly/stackly-api/internal/api/shared"
	"github.com/stackly/stackly-api/internal/filestore"
	"github.com/stackly/stackly-api/internal/store"
)

// maxAvatarBytes caps the multipart form size accepted by UploadAvatar.
const maxAvatarBytes = 2 << 20

// avatarExtensions maps the accepted image content types to the file
// extension the avatar is stored under.
var avatarExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// UserHandler handles user profile API requests.
type UserHandler struct {
	userStore store.UserStore
	files     filestore.FileStore
	validator *validator.Validate
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userStore store.UserStore, files filestore.FileStore) *UserHandler {
	return &UserHandler{
		userStore: userStore,
		files:     files,
		validator: validator.New(),
	}
}

// Me handles GET /users/me: the authenticated caller's own profile.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	user, err := h.userStore.GetByID(r.Context(), identity.ID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// UpdateMe handles PATCH /users/me. Role, life, and point totals are not
// editable through this endpoint.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.userStore.GetByID(r.Context(), identity.ID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Notification != nil {
		user.Notification = *req.Notification
	}
	if req.NotifyEvery != nil {
		user.NotifyEvery = *req.NotifyEvery
	}

	if err := h.userStore.Update(r.Context(), user); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// UploadAvatar handles POST /users/me/avatar: a multipart upload with the
// image under the "avatar" form field. The stored file is named after the
// caller's id so a re-upload replaces the previous avatar.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart upload")
		return
	}

	file, _, err := r.FormFile("avatar")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "An avatar file is required")
		return
	}
	defer file.Close()

	// Sniff the content type from the bytes rather than trusting the
	// client-supplied header.
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Could not read the uploaded file")
		return
	}
	ext, ok := avatarExtensions[http.DetectContentType(head[:n])]
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnsupportedMediaType,
			"Avatar must be a PNG, JPEG, or WebP image")
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	url, err := h.files.Save(r.Context(), identity.ID.String()+ext, file)
	if err != nil {
		if errors.Is(err, filestore.ErrTooLarge) {
			shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge,
				"Avatar exceeds the size limit")
			return
		}
		respondWithServiceError(w, r, err)
		return
	}

	user, err := h.userStore.GetByID(r.Context(), identity.ID)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	user.AvatarURL = url
	if err := h.userStore.Update(r.Context(), user); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	user, err := h.userStore.GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userStore.List(r.Context(), 0, 0)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// Delete handles DELETE /users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	if err := h.userStore.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
