package sessionmw

import (
	"github.com/labstack/echo/v4"

	"github.com/AliakbarCal15/Internship-Task-39/internal/logging"
	"github.com/AliakbarCal15/Internship-Task-39/internal/session"
)

const (
	ctxSessionID = "session_id"
	ctxState     = "session_state"
)

// Attach resolves the session cookie into registry state, minting a new
// session when the cookie is missing or does not verify.
func Attach(tokens *session.Tokens, reg *session.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx)

			var id string
			if ck, err := c.Cookie(session.CookieName); err == nil && ck.Value != "" {
				parsed, perr := tokens.Parse(ck.Value)
				if perr != nil {
					l.Debug("session_cookie_rejected", "error", perr)
				} else {
					id = parsed
				}
			}

			if id == "" {
				newID, raw, exp, err := tokens.Issue()
				if err != nil {
					l.Error("session_issue_failed", "status", 500, "error", err)
					return echo.ErrInternalServerError
				}
				id = newID
				c.SetCookie(session.CreateCookie(raw, exp))
				l.Info("session_started", "session_id", id)
			}

			l = l.With("session_id", id)
			c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, l)))
			c.Set(ctxSessionID, id)
			c.Set(ctxState, reg.Get(id))
			return next(c)
		}
	}
}

// Current returns the session attached by Attach, or nil.
func Current(c echo.Context) *session.State {
	s, _ := c.Get(ctxState).(*session.State)
	return s
}

func SessionID(c echo.Context) string {
	id, _ := c.Get(ctxSessionID).(string)
	return id
}
