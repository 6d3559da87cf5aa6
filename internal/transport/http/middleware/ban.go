package middleware

import (
	"net/http"
	"regexp"

	"github.com/contacthub/contacthub/internal/domain"
)

// Ban rejects requests from blacklisted IPs and user agents before any
// other processing. Patterns that do not compile are skipped at build
// time rather than panicking per request.
func Ban(bannedIPs []string, bannedAgents []string, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	ips := make(map[string]struct{}, len(bannedIPs))
	for _, ip := range bannedIPs {
		ips[ip] = struct{}{}
	}

	agents := make([]*regexp.Regexp, 0, len(bannedAgents))
	for _, pat := range bannedAgents {
		re, err := regexp.Compile(pat)
		if err != nil {
			continue
		}
		agents = append(agents, re)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(ips) > 0 {
				if _, banned := ips[clientIP(r)]; banned {
					writeErr(w, r, domain.ErrForbidden())
					return
				}
			}

			if ua := r.UserAgent(); ua != "" {
				for _, re := range agents {
					if re.MatchString(ua) {
						writeErr(w, r, domain.ErrForbidden())
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
