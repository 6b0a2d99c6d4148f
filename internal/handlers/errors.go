package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/middleware"
	"CREATESHARE_BACK-END/internal/utils"
)

const maxBodyBytes = 1 << 20

var kindStatus = map[apperr.Kind]int{
	apperr.KindValidation:      http.StatusBadRequest,
	apperr.KindUnauthenticated: http.StatusUnauthorized,
	apperr.KindUnauthorized:    http.StatusForbidden,
	apperr.KindNotFound:        http.StatusNotFound,
	apperr.KindConflict:        http.StatusConflict,
	apperr.KindResetExpired:    http.StatusBadRequest,
	apperr.KindTimeout:         http.StatusGatewayTimeout,
	apperr.KindInternal:        http.StatusInternalServerError,
}

// StatusFor maps an error to its HTTP status code
func StatusFor(err error) int {
	if status, ok := kindStatus[apperr.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// writeError renders err as an error envelope. Internal and timeout causes
// are logged and never sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status := StatusFor(err)

	message := "something went wrong"
	switch apperr.KindOf(err) {
	case apperr.KindInternal:
		logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	case apperr.KindTimeout:
		logger.Warn("request timed out", zap.String("path", r.URL.Path), zap.Error(err))
		message = "the request timed out, please try again"
	default:
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			message = appErr.Message
		}
	}

	utils.WriteErrorResponse(w, status, http.StatusText(status), message)
}

// decodeJSON reads a JSON body into dst and runs its validate tags
func decodeJSON(w http.ResponseWriter, r *http.Request, validate *validator.Validate, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		return apperr.Validation("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("invalid request body")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email", fe.Field()))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must have %s length %s", fe.Field(), fe.Tag(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return apperr.Validation(strings.Join(msgs, ", "))
}

// NewValidator returns a validator that reports JSON field names
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, apperr.Validation(fmt.Sprintf("invalid %s", param))
	}
	return id, nil
}

func currentUserID(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, apperr.ErrNotLoggedIn
	}
	return id, nil
}

func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, apperr.Validation("invalid birthdate format, use YYYY-MM-DD")
	}
	return &parsed, nil
}

// CookieConfig controls the session cookie
type CookieConfig struct {
	TTL    time.Duration
	Secure bool
}

func setSessionCookie(w http.ResponseWriter, cfg CookieConfig, token string, now time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(cfg.TTL),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, cfg CookieConfig, now time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    middleware.LoggedOutCookie,
		Path:     "/",
		Expires:  now.Add(10 * time.Second),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
