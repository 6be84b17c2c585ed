package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"

	"hostelcare/backend/internal/api/response"
	"hostelcare/backend/internal/apperrors"
	"hostelcare/backend/internal/config"
	"hostelcare/backend/internal/models"
)

// provisionSecretHeader carries the shared secret that authorizes the
// identity provider to mint bearers.
const provisionSecretHeader = "X-Provision-Secret"

const actorContextKey = "actor"

// GenerateToken mints an HS256 bearer for an identity.
func (h *Handler) GenerateToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(config.TokenTTL).Unix(),
		"iss":     "hostelcare-service",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

// validateToken parses a bearer token and returns the identity it names.
func (h *Handler) validateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrUnauthenticated
		}
		return h.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", apperrors.ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperrors.ErrUnauthenticated
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", apperrors.ErrUnauthenticated
	}
	return userID, nil
}

// RequireActor rejects requests without a valid bearer credential and puts
// the resolved actor (identity + role) into the request context. Runs before
// any business logic.
func (h *Handler) RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.HandleError(apperrors.ErrUnauthenticated, c)
			return
		}

		userID, err := h.validateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			response.HandleError(err, c)
			return
		}

		role, err := h.Storage.GetRole(userID)
		if err != nil {
			response.HandleError(apperrors.Store(err), c)
			return
		}
		if role == "" {
			response.HandleError(apperrors.Forbidden("identity has no role assigned"), c)
			return
		}

		actor := models.Actor{UserID: userID, Role: role}
		if role == models.RoleWorker {
			worker, err := h.Storage.GetWorkerByUserID(userID)
			if err != nil {
				response.HandleError(apperrors.Store(err), c)
				return
			}
			if worker != nil {
				actor.WorkerID = worker.ID
			}
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// actorFrom reads the actor the middleware stored on the context.
func actorFrom(c *gin.Context) models.Actor {
	actor, _ := c.MustGet(actorContextKey).(models.Actor)
	return actor
}

type issueTokenForm struct {
	UserID string `json:"user_id" binding:"required"`
}

// issueTokenAction mints a bearer for a known identity. Credential issuance
// proper (passwords, sessions) lives in the external identity provider; this
// endpoint translates an already-verified identity into a token for API
// access, so only callers holding the provisioning secret may use it. Without
// that gate anyone naming an administrator's user id would get admin rights.
func (h *Handler) issueTokenAction(c *gin.Context) {
	if len(h.provisionSecret) == 0 {
		response.HandleError(apperrors.Forbidden("token issuance is disabled"), c)
		return
	}
	presented := []byte(c.GetHeader(provisionSecretHeader))
	if subtle.ConstantTimeCompare(presented, h.provisionSecret) != 1 {
		response.HandleError(apperrors.ErrUnauthenticated, c)
		return
	}

	var form issueTokenForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.HandleError(apperrors.Invalid("user_id is required"), c)
		return
	}

	role, err := h.Storage.GetRole(form.UserID)
	if err != nil {
		response.HandleError(apperrors.Store(err), c)
		return
	}
	if role == "" {
		response.HandleError(apperrors.Forbidden("identity has no role assigned"), c)
		return
	}

	token, err := h.GenerateToken(form.UserID)
	if err != nil {
		h.log.WithError(err).Error("failed to sign token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user_id": form.UserID, "role": role})
}
