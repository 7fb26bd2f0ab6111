// Package redact scrubs sensitive fragments from strings before they reach
// logs or error responses: credentials, tokens, connection strings, email
// addresses, and SQL fragments.
package redact

import "regexp"

// Placeholders substituted for matched fragments.
const (
	Placeholder           = "[REDACTED]"
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
)

var (
	connStringRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`)
	passwordRegex   = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]['"]?)[^'"&\s]{3,}`)
	secretRegex     = regexp.MustCompile(`(?i)(api[_-]?key|token|secret|jwt_secret)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`)
	jwtRegex        = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)
	emailRegex      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	bcryptRegex     = regexp.MustCompile(`\$2[aby]\$\d{2}\$[./A-Za-z0-9]{53}`)
	sqlRegex        = regexp.MustCompile(`(?i)(SELECT|INSERT|UPDATE|DELETE)\s[\s\w,*()='"$]+(FROM|INTO|SET|WHERE)[\s\w,*()='"$]*`)
)

// String scrubs sensitive fragments from s.
func String(s string) string {
	if s == "" {
		return s
	}

	s = connStringRegex.ReplaceAllString(s, "${1}://"+CredentialPlaceholder+"@")
	s = passwordRegex.ReplaceAllString(s, "${1}${2}"+CredentialPlaceholder)
	s = secretRegex.ReplaceAllString(s, "${1}${2}"+CredentialPlaceholder)
	s = jwtRegex.ReplaceAllString(s, CredentialPlaceholder)
	s = bcryptRegex.ReplaceAllString(s, CredentialPlaceholder)
	s = emailRegex.ReplaceAllString(s, Placeholder)
	s = sqlRegex.ReplaceAllString(s, Placeholder)

	return s
}

// Error scrubs an error's message. Returns an empty string for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
