package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lvassor/my-club/internal/bus"
	"github.com/lvassor/my-club/internal/domain"
	"github.com/lvassor/my-club/internal/query"
	"github.com/lvassor/my-club/internal/repository"
	"github.com/lvassor/my-club/internal/session"
)

const sessionCookie = "session_id"

// APIError is the standardized error response body.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeInternalError = "INTERNAL_ERROR"
)

// customErrorHandler maps core fault types onto consistent JSON responses.
func customErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		status  int
		apiErr  APIError
		invalid domain.InvalidOperationError
		httpErr *echo.HTTPError
	)

	switch {
	case errors.As(err, &invalid):
		status = http.StatusBadRequest
		apiErr = APIError{Code: CodeBadRequest, Message: invalid.Message}
	case errors.Is(err, repository.ErrAggregateNotFound), errors.Is(err, query.ErrNotFound):
		status = http.StatusNotFound
		apiErr = APIError{Code: CodeNotFound, Message: "Resource not found"}
	case errors.Is(err, repository.ErrConcurrencyConflict):
		status = http.StatusConflict
		apiErr = APIError{Code: CodeConflict, Message: "Concurrent modification, retry the request"}
	case errors.Is(err, bus.ErrUnauthorized):
		status = http.StatusForbidden
		apiErr = APIError{Code: CodeForbidden, Message: "Not authorized"}
	case errors.Is(err, session.ErrNotFound):
		status = http.StatusUnauthorized
		apiErr = APIError{Code: CodeUnauthorized, Message: "Not authenticated"}
	case errors.As(err, &httpErr):
		status = httpErr.Code
		apiErr = APIError{Code: CodeBadRequest, Message: http.StatusText(httpErr.Code)}
		if msg, ok := httpErr.Message.(string); ok {
			apiErr.Message = msg
		}
	default:
		status = http.StatusInternalServerError
		apiErr = APIError{Code: CodeInternalError, Message: "Internal server error"}
	}

	_ = c.JSON(status, apiErr)
}

// sessionMiddleware resolves the session cookie and stores the session in the
// request context. The session's user id becomes the actor on every command.
func (s *Server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(sessionCookie)
		if err != nil {
			return session.ErrNotFound
		}
		sess, err := s.sessions.Get(cookie.Value)
		if err != nil {
			return err
		}
		c.Set("session", sess)
		c.Set("session_id", cookie.Value)
		return next(c)
	}
}

// currentSession returns the session stored by sessionMiddleware.
func currentSession(c echo.Context) session.Session {
	sess, _ := c.Get("session").(session.Session)
	return sess
}
