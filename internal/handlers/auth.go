package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lifestyleblend/apiserver/internal/logging"
	"github.com/lifestyleblend/apiserver/internal/services"
	"github.com/lifestyleblend/apiserver/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session tokens ride in an HTTP-only cookie and expire after an hour.
const (
	sessionCookieName = "token"
	sessionTokenTTL   = time.Hour
)

var dataURLPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

// FaceMatcher verifies a face image against the reference collection.
type FaceMatcher interface {
	MatchFace(ctx context.Context, imageBytes []byte) (bool, error)
}

// AuthHandler provides registration, CAPTCHA, login and face-verification
// endpoints.
type AuthHandler struct {
	userService *services.UserService
	faces       FaceMatcher
	secret      []byte
	log         logging.Logger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, faces FaceMatcher, jwtSecret string, log logging.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		faces:       faces,
		secret:      []byte(jwtSecret),
		log:         log,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Get("/generate-captcha", handler.GenerateCaptcha)
	r.Post("/register", handler.Register)
	r.Post("/login", handler.Login)
	r.Post("/logout", handler.Logout)
	r.Post("/face-recognition", handler.FaceRecognition)
	r.With(handler.RequireSession).Get("/profile", handler.Profile)
}

// RequireSession enforces a valid session cookie and injects the user id
// into the request context.
func (h *AuthHandler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Token not provided")
			return
		}

		userID, err := parseSessionToken(cookie.Value, h.secret)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Token is invalid")
			return
		}

		ctx := context.WithValue(r.Context(), contextUserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GenerateCaptcha issues a new login challenge.
func (h *AuthHandler) GenerateCaptcha(w http.ResponseWriter, r *http.Request) {
	id, code := h.userService.GenerateCaptcha()
	writeJSON(w, http.StatusOK, CaptchaResponse{Captcha: code, CaptchaID: id})
}

// Register creates a new user account.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.userService.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		writeServiceError(w, err, "failed to register user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Login verifies CAPTCHA and credentials and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.userService.Login(r.Context(), req.Username, req.Password, req.CaptchaID, req.CaptchaValue)
	if err != nil {
		writeServiceError(w, err, "failed to login")
		return
	}

	token, err := issueSessionToken(user.ID, user.Username, h.secret, sessionTokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionTokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, LoginResponse{ID: user.ID, Username: user.Username})
}

// Logout clears the session cookie unconditionally.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Profile returns the account behind the session cookie. The frontend
// uses it to decide whether a session is active.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Token not provided")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// FaceRecognition verifies the submitted image against the reference
// face collection.
func (h *AuthHandler) FaceRecognition(w http.ResponseWriter, r *http.Request) {
	var req FaceRecognitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	raw := dataURLPrefix.ReplaceAllString(req.Image, "")
	imageBytes, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, FaceRecognitionResponse{Success: false})
		return
	}

	match, err := h.faces.MatchFace(r.Context(), imageBytes)
	if err != nil {
		h.log.Error(r.Context(), "face recognition failed", "username", req.Username, "error", err)
		writeJSON(w, http.StatusInternalServerError, FaceRecognitionResponse{Success: false})
		return
	}
	writeJSON(w, http.StatusOK, FaceRecognitionResponse{Success: match})
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	CaptchaID    string `json:"captchaId"`
	CaptchaValue string `json:"captchaValue"`
}

type LoginResponse struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
}

type CaptchaResponse struct {
	Captcha   string `json:"captcha"`
	CaptchaID string `json:"captchaId"`
}

type FaceRecognitionRequest struct {
	Image    string `json:"image"`
	Username string `json:"username"`
}

type FaceRecognitionResponse struct {
	Success bool `json:"success"`
}

type sessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func issueSessionToken(userID primitive.ObjectID, username string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseSessionToken(tokenString string, secret []byte) (primitive.ObjectID, error) {
	claims := sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	if !token.Valid {
		return primitive.NilObjectID, errors.New("invalid token")
	}
	return primitive.ObjectIDFromHex(claims.Subject)
}
