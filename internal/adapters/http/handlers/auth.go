package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/UCgr8/needsites-public-sub000/internal/adapters/http/middleware"
	"github.com/UCgr8/needsites-public-sub000/internal/adapters/http/response"
	"github.com/UCgr8/needsites-public-sub000/internal/app"
	"github.com/UCgr8/needsites-public-sub000/internal/domain"
)

type AuthHandler struct {
	authService *app.AuthService
}

func NewAuthHandler(authService *app.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input domain.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	ip := r.RemoteAddr
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip = fwd
	}
	userAgent := r.UserAgent()

	result, err := h.authService.Login(input, ip, userAgent)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, result)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.authService.RefreshToken(body.RefreshToken)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, result)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.authService.Logout(body.RefreshToken); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	user, err := h.authService.GetCurrentUser(claims.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, user)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var input domain.ChangePasswordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.authService.ChangePassword(claims.UserID, input); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]string{"message": "Password changed successfully"})
}

func queryInt(q interface{ Get(string) string }, key string, defaultValue int) int {
	val := q.Get(key)
	if val == "" {
		return defaultValue
	}
	var v int
	for _, c := range val {
		if c >= '0' && c <= '9' {
			v = v*10 + int(c-'0')
		} else {
			return defaultValue
		}
	}
	return v
}
