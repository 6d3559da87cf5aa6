package audit

import (
	"strings"

	"github.com/rs/zerolog"
)

// Logger provides structured audit logging for auth business events.
// Email addresses are masked before they reach the log stream.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// Record writes one audit entry. It matches the sink signature the auth
// service expects, so it plugs straight into Service.WithAudit.
func (l *Logger) Record(action string, fields map[string]string) {
	evt := l.log.Info()
	if strings.HasSuffix(action, "_failed") || action == "refresh_reuse_detected" {
		evt = l.log.Warn()
	}
	evt = evt.Str("action", action)
	for k, v := range fields {
		if k == "email" {
			v = maskEmail(v)
		}
		evt = evt.Str(k, v)
	}
	evt.Msg("audit event")
}

// maskEmail keeps the first two characters and the domain.
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at < 0 || len(email) < 5 {
		return "***"
	}
	if at < 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
