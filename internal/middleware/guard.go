package middleware

import "net/http"

const maxBodyBytes = 64 << 10 // analysis text tops out at 2000 runes

// BodyGuard caps request body size before handlers decode it. The
// input validator enforces the character limits; this only stops
// oversized payloads from being buffered at all.
func BodyGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// ClampPage normalizes pagination input
func ClampPage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// ClampPageSize normalizes page size input
func ClampPageSize(size int) int {
	if size <= 0 {
		return 20
	}
	if size > 100 {
		return 100
	}
	return size
}
