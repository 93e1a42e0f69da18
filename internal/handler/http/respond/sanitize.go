package respond

import (
	"regexp"
)

var (
	// user:password@ in DSNs and feed URLs
	userinfoPattern = regexp.MustCompile(`://([^:/@\s]+):([^@\s]+)@`)

	bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-z0-9._~+/=-]+`)

	// compact JWS: three base64url segments, the first starting with {"
	jwtPattern = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]*`)

	secretParamPattern = regexp.MustCompile(`(?i)([?&](?:token|key|api_key|apikey|password|secret)=)[^&\s]+`)
)

// SanitizeError returns the error message with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return Sanitize(err.Error())
}

// Sanitize masks credentials in msg.
func Sanitize(msg string) string {
	msg = bearerPattern.ReplaceAllString(msg, "Bearer ****")
	msg = jwtPattern.ReplaceAllString(msg, "****")
	msg = userinfoPattern.ReplaceAllString(msg, "://$1:****@")
	msg = secretParamPattern.ReplaceAllString(msg, "${1}****")
	return msg
}
