package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/voxlive/vox-backend/internal/auth"
	"github.com/voxlive/vox-backend/internal/mailer"
	"github.com/voxlive/vox-backend/internal/models"
	"github.com/voxlive/vox-backend/internal/store"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
	Token   string      `json:"token"`
}

func (a *API) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil || req.Name == "" || req.Email == "" || req.Password == "" {
		a.writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	if _, err := a.store.UserByEmail(r.Context(), req.Email); !errors.Is(err, store.ErrNotFound) {
		if err != nil {
			a.writeError(w, http.StatusInternalServerError, "could not create account")
			return
		}
		a.writeError(w, http.StatusBadRequest, "email already in use")
		return
	}

	hash, err := a.auth.HashPassword(req.Password)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "could not create account")
		return
	}

	user := models.User{Name: req.Name, Email: req.Email, PasswordHash: hash}
	if err := a.store.CreateUser(r.Context(), &user); err != nil {
		a.writeError(w, http.StatusInternalServerError, "could not create account")
		return
	}

	token, err := a.auth.GenerateToken(user.ID)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "could not create account")
		return
	}

	a.sendValidationEmail(user.Email, token)

	a.writeJSON(w, http.StatusCreated, authResponse{
		Message: "account created",
		User:    user,
		Token:   token,
	})
}

func (a *API) loginUser(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil || req.Email == "" || req.Password == "" {
		a.writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.store.UserByEmail(r.Context(), req.Email)
	if err != nil {
		a.writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := a.auth.ComparePassword(req.Password, user.PasswordHash); err != nil {
		a.writeError(w, http.StatusUnauthorized, "wrong password")
		return
	}

	token, err := a.auth.GenerateToken(user.ID)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, "could not log in")
		return
	}

	a.writeJSON(w, http.StatusOK, authResponse{
		Message: "logged in",
		User:    user,
		Token:   token,
	})
}

func (a *API) currentUser(w http.ResponseWriter, r *http.Request) {
	user, err := a.store.UserByID(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		a.writeError(w, http.StatusNotFound, "user not found")
		return
	}
	a.writeJSON(w, http.StatusOK, user)
}

type updateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) updateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decode(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, "bad json")
		return
	}

	userID := auth.UserID(r.Context())
	user, err := a.store.UserByID(r.Context(), userID)
	if err != nil {
		a.writeError(w, http.StatusNotFound, "user not found")
		return
	}

	fields := map[string]any{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Email != "" && req.Email != user.Email {
		if _, err := a.store.UserByEmail(r.Context(), req.Email); !errors.Is(err, store.ErrNotFound) {
			a.writeError(w, http.StatusBadRequest, "email already in use")
			return
		}
		// A changed address must be validated again.
		fields["email"] = req.Email
		fields["email_valid"] = false

		token, err := a.auth.GenerateToken(userID)
		if err == nil {
			a.sendValidationEmail(req.Email, token)
		}
	}
	if req.Password != "" {
		hash, err := a.auth.HashPassword(req.Password)
		if err != nil {
			a.writeError(w, http.StatusInternalServerError, "could not update account")
			return
		}
		fields["password_hash"] = hash
	}

	if len(fields) > 0 {
		if err := a.store.UpdateUser(r.Context(), userID, fields); err != nil {
			a.writeError(w, http.StatusInternalServerError, "could not update account")
			return
		}
	}
	a.writeMessage(w, http.StatusOK, "account updated")
}

func (a *API) deleteUser(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if _, err := a.store.UserByID(r.Context(), userID); err != nil {
		a.writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if err := a.store.DeleteUser(r.Context(), userID); err != nil {
		a.writeError(w, http.StatusInternalServerError, "could not delete account")
		return
	}
	a.writeMessage(w, http.StatusOK, "account deleted")
}

func (a *API) validateEmail(w http.ResponseWriter, r *http.Request) {
	userID, err := a.auth.DecodeToken(chi.URLParam(r, "token"))
	if err != nil {
		a.writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	user, err := a.store.UserByID(r.Context(), userID)
	if err != nil {
		a.writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if user.EmailValid {
		writeAlertPage(w, "Your account has already been validated")
		return
	}

	if err := a.store.UpdateUser(r.Context(), userID, map[string]any{"email_valid": true}); err != nil {
		a.writeError(w, http.StatusInternalServerError, "could not validate account")
		return
	}
	writeAlertPage(w, "Account validated")
}

// writeAlertPage is what the validation link opens in the browser: a page
// that alerts and closes itself.
func writeAlertPage(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<html>
  <body>
    <script type="text/javascript">
      alert('%s');
      window.close();
    </script>
  </body>
</html>`, msg)
}

// sendValidationEmail delivers off the request path; a failure is logged
// and the user can request validation again.
func (a *API) sendValidationEmail(email, token string) {
	body := mailer.ValidationBody(a.appURL, token)
	go func() {
		if err := a.mail.Send(email, "VOX ACCOUNT VALIDATION", body); err != nil {
			a.log.Warn("validation email failed", zap.String("to", email), zap.Error(err))
		}
	}()
}
