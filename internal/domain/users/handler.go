package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"taara-rescue/internal/middleware"
	"taara-rescue/internal/validation"

	"github.com/go-chi/chi/v5"
)

// TokenIssuer firma tokens para el login (lo implementa jwtauth).
type TokenIssuer interface {
	Issue(userID, username, role string) (string, error)
}

func RegisterRoutes(r chi.Router, svc *Service, issuer TokenIssuer) {
	r.Post("/login", loginHandler(svc, issuer))

	// Gestión de cuentas: todo admin-only
	r.Route("/users", func(ur chi.Router) {
		ur.Get("/", listUsersHandler(svc))
		ur.Post("/", createUserHandler(svc))
		ur.Get("/{userID}", getUserHandler(svc))
		ur.Put("/{userID}", updateUserHandler(svc))
		ur.Delete("/{userID}", deleteUserHandler(svc))
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// userResponse nunca incluye la password (ni el hash).
type userResponse struct {
	ID        string    `json:"_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	LastLogin *string   `json:"lastLogin"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// @Summary  Admin login
// @Accept   json
// @Produce  json
// @Success  200 {object} map[string]any
// @Failure  400 {object} map[string]any
// @Router   /api/login [post]
func loginHandler(svc *Service, issuer TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request")
			return
		}

		u, err := svc.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			// mismo mensaje para usuario inexistente y password incorrecta
			writeError(w, http.StatusBadRequest, "Invalid username or password")
			return
		}

		token, err := issuer.Issue(u.ID, u.Username, u.Role)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"token":   token,
		})
	}
}

func listUsersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		views, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch users")
			return
		}

		out := make([]userResponse, 0, len(views))
		for _, v := range views {
			out = append(out, toUserResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		v, err := svc.GetView(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeJSON(w, http.StatusOK, toUserResponse(v))
	}
}

func createUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req createUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		if errs := validation.Struct(req); errs != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": "Validation failed",
				"errors":  errs,
			})
			return
		}

		u, err := svc.Create(r.Context(), CreateInput{
			Username: req.Username,
			Password: req.Password,
			Role:     req.Role,
		})
		if err != nil {
			if errors.Is(err, ErrUsernameTaken) {
				writeError(w, http.StatusBadRequest, "Username already exists")
				return
			}
			writeError(w, http.StatusBadRequest, "Failed to create user")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"success": true,
			"message": "User created successfully",
			"user": map[string]string{
				"_id":      u.ID,
				"username": u.Username,
				"role":     u.Role,
			},
		})
	}
}

func updateUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		var req updateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}

		u, err := svc.Update(r.Context(), chi.URLParam(r, "userID"), UpdateInput{
			Username: req.Username,
			Password: req.Password,
			Role:     req.Role,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, "User not found")
			case errors.Is(err, ErrUsernameTaken):
				writeError(w, http.StatusBadRequest, "Username already exists")
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, "Failed to update user")
			default:
				writeError(w, http.StatusInternalServerError, "Failed to update user")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "User updated successfully",
			"user": map[string]string{
				"_id":      u.ID,
				"username": u.Username,
				"role":     u.Role,
			},
		})
	}
}

func deleteUserHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requireAdmin(w, r) {
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "userID")); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to delete user")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "User deleted successfully",
		})
	}
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return false
	}
	if !claims.IsAdmin() {
		writeError(w, http.StatusForbidden, "Forbidden")
		return false
	}
	return true
}

func toUserResponse(v View) userResponse {
	out := userResponse{
		ID:        v.ID,
		Username:  v.Username,
		Role:      v.Role,
		Status:    v.Status,
		CreatedAt: v.CreatedAt,
	}
	if v.LastLogin != nil {
		s := v.LastLogin.Format("2006-01-02")
		out.LastLogin = &s
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"message": message,
	})
}
