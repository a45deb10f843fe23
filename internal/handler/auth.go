package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"
	"strings"

	"github.com/BloggingApp/blog-service/internal/dto"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const oauthStateKey = "oauth_state"

func (h *Handler) authRegister(c *gin.Context) {
	var input dto.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindError(c, err)
		return
	}

	author, err := h.services.Auth.Register(c.Request.Context(), input)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, author)
}

func (h *Handler) authLogin(c *gin.Context) {
	var input dto.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		h.bindError(c, err)
		return
	}

	token, err := h.services.Auth.Login(c.Request.Context(), input)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

func (h *Handler) authMe(c *gin.Context) {
	subject := h.getSubjectFromRequest(c)
	if subject == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errNotAuthorized.Error()))
		return
	}

	author, err := h.services.Auth.WhoAmI(c.Request.Context(), *subject)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, author)
}

func newState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (h *Handler) authGoogle(c *gin.Context) {
	state, err := newState()
	if err != nil {
		h.logger.Sugar().Errorf("failed to generate oauth state: %s", err.Error())
		h.redirectOAuthFailure(c)
		return
	}

	session := sessions.Default(c)
	session.Set(oauthStateKey, state)
	if err := session.Save(); err != nil {
		h.logger.Sugar().Errorf("failed to save oauth session: %s", err.Error())
		h.redirectOAuthFailure(c)
		return
	}

	c.Redirect(http.StatusFound, h.services.Auth.GoogleLoginURL(state))
}

func (h *Handler) authGoogleCallback(c *gin.Context) {
	session := sessions.Default(c)
	expected, _ := session.Get(oauthStateKey).(string)
	session.Delete(oauthStateKey)
	if err := session.Save(); err != nil {
		h.logger.Sugar().Errorf("failed to clear oauth session: %s", err.Error())
	}

	if expected == "" || c.Query("state") != expected {
		h.logger.Sugar().Infof("rejected google callback: state mismatch")
		h.redirectOAuthFailure(c)
		return
	}

	token, err := h.services.Auth.FederatedLogin(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.redirectOAuthFailure(c)
		return
	}

	c.Redirect(http.StatusFound, h.frontendURL("/home", url.Values{"token": {token}}))
}

func (h *Handler) redirectOAuthFailure(c *gin.Context) {
	c.Redirect(http.StatusFound, h.frontendURL("/login", url.Values{"error": {"oauth"}}))
}

func (h *Handler) frontendURL(path string, query url.Values) string {
	return strings.TrimRight(h.opts.FrontendURL, "/") + path + "?" + query.Encode()
}
