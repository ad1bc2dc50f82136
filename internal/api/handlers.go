package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"railsathi.com/complaints-service/internal/core"
	"railsathi.com/complaints-service/internal/store"
)

type APIHandler struct {
	userService      *core.UserService
	complaintService *core.ComplaintService
	jwtSecret        []byte
	logger           *zap.Logger
}

func NewAPIHandler(us *core.UserService, cs *core.ComplaintService, jwtSecret []byte, logger *zap.Logger) *APIHandler {
	return &APIHandler{
		userService:      us,
		complaintService: cs,
		jwtSecret:        jwtSecret,
		logger:           logger,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError writes {"error": ...}. Internals (query text, stack traces)
// never reach the response body.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// validEmail accepts a bare address only; display-name forms are rejected.
func validEmail(email string) bool {
	norm := core.NormalizeEmail(email)
	addr, err := mail.ParseAddress(norm)
	return err == nil && addr.Address == norm
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *APIHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !validEmail(req.Email) {
		respondError(w, http.StatusBadRequest, "A valid email is required")
		return
	}
	if len(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}

	user, err := h.userService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			respondError(w, http.StatusBadRequest, "User already exists")
			return
		}
		h.logger.Error("failed to register user", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "User created successfully",
		"userId":  user.ID,
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *APIHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !validEmail(req.Email) || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, user, err := h.userService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("failed to log in user", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    userResponse{ID: user.ID, Email: user.Email, Name: user.Name},
	})
}

func (h *APIHandler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	user, err := h.userService.Profile(claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("failed to load profile", zap.Int64("user_id", claims.UserID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

var complaintIDPattern = regexp.MustCompile(`^CMP-\d+$`)

func validConfidence(v *float64) bool {
	return v == nil || (*v >= 0 && *v <= 1)
}

func validateComplaint(c *store.Complaint) string {
	if !complaintIDPattern.MatchString(c.ID) {
		return "Complaint id must match CMP-<digits>"
	}
	if c.Text == "" {
		return "Complaint text is required"
	}
	if c.Category == "" {
		return "Category is required"
	}
	switch c.Severity {
	case store.SeverityHigh, store.SeverityMedium, store.SeverityLow:
	default:
		return "Severity must be one of High, Medium, Low"
	}
	if !validConfidence(c.Confidence) || !validConfidence(c.ConfidenceCategory) || !validConfidence(c.ConfidenceSeverity) {
		return "Confidence values must be between 0 and 1"
	}
	return ""
}

func (h *APIHandler) CreateComplaintHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	var complaint store.Complaint
	if err := json.NewDecoder(r.Body).Decode(&complaint); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if msg := validateComplaint(&complaint); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.complaintService.Create(claims.UserID, &complaint); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			respondError(w, http.StatusBadRequest, "Complaint id already exists")
			return
		}
		h.logger.Error("failed to save complaint",
			zap.Int64("user_id", claims.UserID),
			zap.String("complaint_id", complaint.ID),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error saving complaint")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message":     "Complaint saved successfully",
		"complaintId": complaint.ID,
	})
}

func (h *APIHandler) ListComplaintsHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	complaints, err := h.complaintService.List(claims.UserID)
	if err != nil {
		h.logger.Error("failed to list complaints", zap.Int64("user_id", claims.UserID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, complaints)
}

func (h *APIHandler) GetComplaintHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	complaintID := chi.URLParam(r, "complaintID")

	complaint, err := h.complaintService.Get(claims.UserID, complaintID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Complaint not found")
			return
		}
		h.logger.Error("failed to get complaint",
			zap.Int64("user_id", claims.UserID),
			zap.String("complaint_id", complaintID),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, complaint)
}

func (h *APIHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())

	stats, err := h.complaintService.Stats(claims.UserID)
	if err != nil {
		h.logger.Error("failed to compute stats", zap.Int64("user_id", claims.UserID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
