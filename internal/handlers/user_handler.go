package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/anashamdi123/3a9ari-sub001/internal/models"
	"github.com/anashamdi123/3a9ari-sub001/internal/repositories"
	"github.com/anashamdi123/3a9ari-sub001/internal/services"
	"github.com/anashamdi123/3a9ari-sub001/utils"
)

const maxAvatarSize = 5 << 20

type UserHandler struct {
	Service  *services.UserService
	UserRepo *repositories.UserRepository
	Storage  *utils.Storage
}

func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		http.Error(w, "Email, password and full_name are required", http.StatusBadRequest)
		return
	}

	result := h.Service.SignUp(r.Context(), req)
	w.Header().Set("Content-Type", "application/json")
	if !result.OK() {
		status := http.StatusInternalServerError
		if result.ErrorMessage == services.MsgEmailTaken {
			status = http.StatusConflict
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"message": result.ErrorMessage})
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

func (h *UserHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result := h.Service.SignIn(r.Context(), req.Email, req.Password)
	w.Header().Set("Content-Type", "application/json")
	if !result.OK() {
		status := http.StatusInternalServerError
		if result.ErrorMessage == services.MsgInvalidCredentials {
			status = http.StatusUnauthorized
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"message": result.ErrorMessage})
		return
	}

	json.NewEncoder(w).Encode(result)
}

func (h *UserHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	h.Service.SignOut(r.Context(), userID)
	w.WriteHeader(http.StatusOK)
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.Service.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get(":id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := h.Service.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// UpdateProfile edits the caller's display name and, when the multipart form
// carries an avatar file, uploads it and stores the public URL.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	req := models.UpdateProfileRequest{
		FullName: r.FormValue("full_name"),
	}
	if req.FullName == "" {
		http.Error(w, "full_name is required", http.StatusBadRequest)
		return
	}

	if file, header, err := r.FormFile("avatar"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize))
		if err != nil {
			http.Error(w, "Failed to read avatar", http.StatusBadRequest)
			return
		}
		fileName := fmt.Sprintf("%d_%d%s", userID, time.Now().Unix(), filepath.Ext(header.Filename))
		url, err := h.Storage.UploadImage(data, fileName, "avatars")
		if err != nil {
			http.Error(w, "Failed to upload avatar", http.StatusInternalServerError)
			return
		}
		req.AvatarURL = &url
	}

	user, err := h.Service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// RegisterDeviceToken stores the caller's FCM token for push delivery.
func (h *UserHandler) RegisterDeviceToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.UserRepo.SetDeviceToken(r.Context(), userID, req.Token); err != nil {
		http.Error(w, "Failed to save token", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
