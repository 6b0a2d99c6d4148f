package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleOAuth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"CREATESHARE_BACK-END/internal/apperr"
	"CREATESHARE_BACK-END/internal/config"
	"CREATESHARE_BACK-END/internal/dto"
	"CREATESHARE_BACK-END/internal/services"
	"CREATESHARE_BACK-END/internal/utils"
)

const oauthStateCookie = "oauth_state"

// GoogleUserInfoFetcher loads the profile behind an OAuth token
type GoogleUserInfoFetcher func(ctx context.Context, token *oauth2.Token) (*dto.GoogleUserInfo, error)

// GoogleAuthHandler handles Google OAuth authentication
type GoogleAuthHandler struct {
	auth         *services.AuthService
	oauth2Config *oauth2.Config
	frontendURL  string
	cookie       CookieConfig
	fetchUser    GoogleUserInfoFetcher
	logger       *zap.Logger
}

// NewGoogleAuthHandler creates a new GoogleAuthHandler instance
func NewGoogleAuthHandler(auth *services.AuthService, cfg config.GoogleOAuthConfig, cookie CookieConfig, logger *zap.Logger) *GoogleAuthHandler {
	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	h := &GoogleAuthHandler{
		auth:         auth,
		oauth2Config: oauth2Config,
		frontendURL:  cfg.FrontendRedirectURL,
		cookie:       cookie,
		logger:       logger,
	}
	h.fetchUser = h.getGoogleUserInfo
	return h
}

// GoogleLogin initiates Google OAuth login
// @Summary Google OAuth login
// @Description Returns the Google consent URL and sets a state cookie
// @Tags authentication
// @Produce json
// @Success 200 {object} dto.GoogleLoginResponse "Google OAuth URL"
// @Router /api/v1/users/google/login [get]
func (h *GoogleAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	authURL := h.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	utils.WriteSuccess(w, http.StatusOK, dto.GoogleLoginResponse{AuthURL: authURL, State: state})
}

// GoogleCallback handles Google OAuth callback
// @Summary Google OAuth callback
// @Description Exchanges the authorization code, provisions the account on first sign-in and starts a session
// @Tags authentication
// @Produce json
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State parameter for CSRF protection"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Success 302 "Redirect to the frontend when configured"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid authorization code"
// @Router /api/v1/users/google/callback [get]
func (h *GoogleAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		writeError(w, r, h.logger, apperr.Validation("authorization code is required"))
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(stateCookie.Value), []byte(state)) != 1 {
		writeError(w, r, h.logger, apperr.Validation("invalid oauth state"))
		return
	}

	token, err := h.oauth2Config.Exchange(r.Context(), code)
	if err != nil {
		writeError(w, r, h.logger, &apperr.Error{Kind: apperr.KindUnauthenticated, Message: "invalid authorization code", Err: err})
		return
	}

	info, err := h.fetchUser(r.Context(), token)
	if err != nil {
		writeError(w, r, h.logger, apperr.Internal("fetch google user info", err))
		return
	}

	user, session, err := h.auth.GoogleSignIn(r.Context(), info)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	setSessionCookie(w, h.cookie, session, time.Now())

	if h.frontendURL != "" {
		target, err := url.Parse(h.frontendURL)
		if err == nil {
			q := target.Query()
			q.Set("provider", "google")
			target.RawQuery = q.Encode()
			http.Redirect(w, r, target.String(), http.StatusFound)
			return
		}
		h.logger.Warn("invalid google frontend redirect url", zap.String("url", h.frontendURL), zap.Error(err))
	}

	utils.WriteSuccess(w, http.StatusOK, dto.AuthResponse{Token: session, User: dto.NewUserResponse(user)})
}

// getGoogleUserInfo fetches user information from Google
func (h *GoogleAuthHandler) getGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*dto.GoogleUserInfo, error) {
	service, err := googleOAuth2.NewService(ctx, option.WithTokenSource(h.oauth2Config.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}

	userInfo, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	verified := false
	if userInfo.VerifiedEmail != nil {
		verified = *userInfo.VerifiedEmail
	}

	return &dto.GoogleUserInfo{
		ID:       userInfo.Id,
		Email:    userInfo.Email,
		Name:     userInfo.Name,
		Picture:  userInfo.Picture,
		Verified: verified,
	}, nil
}
