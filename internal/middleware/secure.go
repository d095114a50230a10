package middleware

import (
	"net/http"

	"github.com/unrolled/secure"
)

// contentSecurityPolicy admits the Google Identity Services script and the
// htmx bundle; everything else is same-origin.
const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' https://accounts.google.com/gsi/client https://unpkg.com; " +
	"frame-src https://accounts.google.com/gsi/; " +
	"connect-src 'self' https://accounts.google.com/gsi/; " +
	"style-src 'self' 'unsafe-inline' https://accounts.google.com/gsi/style"

// SecureOptions returns the security header options.
func SecureOptions(isDevelopment bool) secure.Options {
	return secure.Options{
		IsDevelopment:         isDevelopment,
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: contentSecurityPolicy,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		STSSeconds:            31536000,
	}
}

// Secure returns a middleware that adds security headers.
func Secure(opts secure.Options) func(next http.Handler) http.Handler {
	return secure.New(opts).Handler
}
