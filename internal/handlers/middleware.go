package handlers

import (
	"net/http"

	"a11yowl/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	VisitorCookie = "a11yowl_visitor"
	visitorKey    = "visitor_id"
	visitorMaxAge = 365 * 24 * 60 * 60
)

// VisitorMiddleware makes sure every request carries a visitor id, issuing
// a fresh UUID cookie when the browser has none or a malformed one.
func VisitorMiddleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(VisitorCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(VisitorCookie, id, visitorMaxAge, "/", "", secure, true)
		}
		c.Set(visitorKey, id)
		c.Next()
	}
}

// VisitorID returns the id set by VisitorMiddleware, or "".
func VisitorID(c *gin.Context) string {
	return c.GetString(visitorKey)
}

// StatusFor maps a service error onto an HTTP status and a message that is
// safe to show.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errors.ErrInvalidURL),
		errors.Is(err, errors.ErrInvalidEmail),
		errors.Is(err, errors.ErrInvalidPlatform):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, errors.ErrRateLimited):
		return http.StatusTooManyRequests, err.Error()
	}

	if reqErr, ok := errors.AsRequestError(err); ok {
		switch {
		case reqErr.StatusCode == 0 && reqErr.Err == nil:
			return http.StatusBadRequest, reqErr.Message
		case reqErr.StatusCode >= 400 && reqErr.StatusCode < 500:
			return reqErr.StatusCode, reqErr.Message
		default:
			return http.StatusBadGateway, reqErr.Message
		}
	}
	return http.StatusInternalServerError, "Something went wrong"
}

func abortWithError(c *gin.Context, err error) {
	status, msg := StatusFor(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}
