package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Mandeep003/nestle-truck-monitor/auth"
	"github.com/Mandeep003/nestle-truck-monitor/models"
)

type SessionHandler struct {
	resolver   *auth.RoleResolver
	jwtManager *auth.JWTManager
}

func NewSessionHandler(resolver *auth.RoleResolver, jwtManager *auth.JWTManager) *SessionHandler {
	return &SessionHandler{
		resolver:   resolver,
		jwtManager: jwtManager,
	}
}

type LoginRequest struct {
	Password string `json:"password"`
}

type LoginResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	Role         models.Role `json:"role"`
}

// Login exchanges a shared role password for a session token pair.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Password == "" {
		writeError(w, "Password is required", http.StatusBadRequest)
		return
	}

	role, ok := h.resolver.Resolve(req.Password)
	if !ok {
		log.Printf("Login failed: unrecognized credential")
		writeError(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	token, err := h.jwtManager.GenerateToken(role)
	if err != nil {
		log.Printf("Failed to generate token for role %s: %v", role, err)
		writeError(w, "Failed to generate authentication token", http.StatusInternalServerError)
		return
	}

	refreshToken, err := h.jwtManager.GenerateRefreshToken(role)
	if err != nil {
		log.Printf("Failed to generate refresh token for role %s: %v", role, err)
		writeError(w, "Failed to generate refresh token", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Session opened for role: %s", role)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		Role:         role,
	})
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	Token string `json:"token"`
}

// RefreshToken handles token refresh
func (h *SessionHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	claims, err := h.jwtManager.ValidateToken(req.RefreshToken)
	if err != nil {
		writeError(w, "Invalid or expired refresh token", http.StatusUnauthorized)
		return
	}

	token, err := h.jwtManager.GenerateToken(claims.Role)
	if err != nil {
		log.Printf("Failed to generate token for role %s: %v", claims.Role, err)
		writeError(w, "Failed to generate authentication token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RefreshTokenResponse{
		Token: token,
	})
}

func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
