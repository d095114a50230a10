package middleware

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// Compress gzips responses for clients that accept it. Bodies smaller than
// the gzhttp default threshold are sent as-is.
func Compress() (func(next http.Handler) http.Handler, error) {
	wrapper, err := gzhttp.NewWrapper(gzhttp.ContentTypes([]string{
		"text/html",
		"text/css",
		"text/plain",
		"application/javascript",
		"application/json",
	}))
	if err != nil {
		return nil, err
	}
	return func(next http.Handler) http.Handler {
		return wrapper(next)
	}, nil
}
