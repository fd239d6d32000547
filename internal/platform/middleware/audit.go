package middleware

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/patientconnect/api/internal/platform/auth"
)

// AuditEntry captures one access to patient data: which facility touched what,
// when, from where. Visit records are an append-only clinical audit trail and
// reads of them are themselves audited.
type AuditEntry struct {
	FacilityName string
	FacilityType string
	UserEmail    string
	Action       string // search, submit
	IPAddress    string
	UserAgent    string
	Path         string
	Method       string
	Timestamp    time.Time
	RequestID    string
	StatusCode   int
}

// AuditRecorder is the interface the audit middleware uses to persist entries.
// Decoupled from any concrete sink so tests can provide a mock.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// Audit returns middleware that logs every request under /patients with the
// authenticated facility identity. If no AuditRecorder is provided it falls
// back to structured zerolog logging only.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			path := req.URL.Path

			if !isAuditablePath(path) {
				return next(c)
			}

			// Execute the handler first so we capture the response status
			err := next(c)

			entry := AuditEntry{
				Timestamp:  time.Now().UTC(),
				Path:       path,
				Method:     req.Method,
				IPAddress:  c.RealIP(),
				UserAgent:  req.UserAgent(),
				StatusCode: c.Response().Status,
				Action:     pathToAction(path),
			}

			if p, ok := auth.PrincipalFromContext(req.Context()); ok {
				entry.FacilityName = p.FacilityName
				entry.FacilityType = p.FacilityType
				entry.UserEmail = p.Email
			}

			if rid, ok := c.Get("request_id").(string); ok {
				entry.RequestID = rid
			}

			if len(recorders) > 0 && recorders[0] != nil {
				if recErr := recorders[0].RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "patient_data_audit").
				Str("request_id", entry.RequestID).
				Str("facility_name", entry.FacilityName).
				Str("facility_type", entry.FacilityType).
				Str("user_email", entry.UserEmail).
				Str("action", entry.Action).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("patient_access")

			return err
		}
	}
}

// isAuditablePath returns true for routes that touch patient data.
func isAuditablePath(path string) bool {
	return strings.HasPrefix(path, "/patients")
}

func pathToAction(path string) string {
	switch {
	case strings.HasSuffix(path, "/search"):
		return "search"
	case strings.HasSuffix(path, "/visit"):
		return "submit"
	default:
		return "access"
	}
}
