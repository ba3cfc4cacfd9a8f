package httpmiddleware

import (
	"net/http"

	"github.com/NYTimes/gziphandler"
)

// Gzip compresses responses for clients that accept gzip. Bodies smaller
// than gziphandler.DefaultMinSize are sent as-is.
func Gzip() Middleware {
	return func(next http.Handler) http.Handler {
		return gziphandler.GzipHandler(next)
	}
}
