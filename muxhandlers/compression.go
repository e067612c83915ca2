package muxhandlers

import (
	"compress/gzip"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/vitalvas/swagdoc/mux"
)

// ErrInvalidCompressionLevel is returned when CompressionConfig.Level is
// not a gzip compression level.
var ErrInvalidCompressionLevel = errors.New("compression: invalid compression level")

// DefaultCompressibleTypes are the media types the documentation endpoints
// and the item service answer with.
var DefaultCompressibleTypes = []string{
	"application/json",
	"application/x-yaml",
	"text/html",
	"text/plain",
}

// CompressionConfig configures CompressionMiddleware.
type CompressionConfig struct {
	// Level is the gzip level; zero means gzip.DefaultCompression.
	Level int

	// MinLength is the body size below which responses are sent as is.
	MinLength int

	// Types lists the media types eligible for compression
	// (default: DefaultCompressibleTypes).
	Types []string
}

// CompressionMiddleware gzips eligible responses for clients accepting gzip.
// The body is buffered until MinLength bytes are written so that small
// responses skip compression.
func CompressionMiddleware(cfg CompressionConfig) (mux.MiddlewareFunc, error) {
	level := cfg.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		return nil, ErrInvalidCompressionLevel
	}

	types := cfg.Types
	if len(types) == 0 {
		types = DefaultCompressibleTypes
	}

	pool := &sync.Pool{
		New: func() any {
			w, _ := gzip.NewWriterLevel(io.Discard, level)
			return w
		},
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept-Encoding")

			if r.Method == http.MethodHead || !acceptsGzip(r.Header.Get("Accept-Encoding")) {
				next.ServeHTTP(w, r)
				return
			}

			gw := &gzipResponseWriter{
				ResponseWriter: w,
				pool:           pool,
				types:          types,
				minLength:      cfg.MinLength,
				status:         http.StatusOK,
			}
			defer gw.close()

			next.ServeHTTP(gw, r)
		})
	}, nil
}

// acceptsGzip reports whether an Accept-Encoding value allows gzip with a
// non-zero quality, directly or through "*".
func acceptsGzip(header string) bool {
	accepted := false
	explicit := false

	for part := range strings.SplitSeq(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		name = strings.ToLower(strings.TrimSpace(name))

		q := 1.0
		if key, val, ok := strings.Cut(strings.TrimSpace(params), "="); ok && strings.TrimSpace(key) == "q" {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
			if err != nil {
				parsed = 0
			}
			q = parsed
		}

		switch name {
		case "gzip", "x-gzip":
			explicit = true
			accepted = q > 0
		case "*":
			if !explicit {
				accepted = q > 0
			}
		}
	}

	return accepted
}

type gzipResponseWriter struct {
	http.ResponseWriter
	pool      *sync.Pool
	types     []string
	minLength int

	status      int
	wroteHeader bool
	decided     bool
	gz          *gzip.Writer
	buf         []byte
}

func (gw *gzipResponseWriter) WriteHeader(status int) {
	if gw.wroteHeader {
		return
	}
	gw.wroteHeader = true
	gw.status = status
}

func (gw *gzipResponseWriter) Write(b []byte) (int, error) {
	if !gw.wroteHeader {
		gw.WriteHeader(http.StatusOK)
	}

	if gw.decided {
		if gw.gz != nil {
			return gw.gz.Write(b)
		}
		return gw.ResponseWriter.Write(b)
	}

	gw.buf = append(gw.buf, b...)
	if len(gw.buf) >= gw.minLength {
		if err := gw.decide(true); err != nil {
			return 0, err
		}
	}
	return len(b), nil
}

// decide commits the headers, compressing when allowed and the body is
// large enough, then flushes the buffered bytes.
func (gw *gzipResponseWriter) decide(large bool) error {
	gw.decided = true

	h := gw.Header()
	if large && gw.eligible(h) {
		h.Set("Content-Encoding", "gzip")
		h.Del("Content-Length")

		gw.gz = gw.pool.Get().(*gzip.Writer)
		gw.gz.Reset(gw.ResponseWriter)
	}

	gw.ResponseWriter.WriteHeader(gw.status)

	buf := gw.buf
	gw.buf = nil
	if len(buf) == 0 {
		return nil
	}
	if gw.gz != nil {
		_, err := gw.gz.Write(buf)
		return err
	}
	_, err := gw.ResponseWriter.Write(buf)
	return err
}

func (gw *gzipResponseWriter) eligible(h http.Header) bool {
	if h.Get("Content-Encoding") != "" {
		return false
	}
	if gw.status < http.StatusOK || gw.status == http.StatusNoContent || gw.status == http.StatusNotModified {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(h.Get("Content-Type"))
	if err != nil {
		return false
	}
	for _, t := range gw.types {
		if strings.EqualFold(mediaType, t) {
			return true
		}
	}
	return false
}

func (gw *gzipResponseWriter) close() {
	if !gw.decided {
		if !gw.wroteHeader && len(gw.buf) == 0 {
			return
		}
		_ = gw.decide(len(gw.buf) > 0 && len(gw.buf) >= gw.minLength)
	}

	if gw.gz != nil {
		_ = gw.gz.Close()
		gw.pool.Put(gw.gz)
		gw.gz = nil
	}
}

// Flush implements http.Flusher.
func (gw *gzipResponseWriter) Flush() {
	if !gw.decided {
		_ = gw.decide(len(gw.buf) > 0 && len(gw.buf) >= gw.minLength)
	}
	if gw.gz != nil {
		_ = gw.gz.Flush()
	}
	if f, ok := gw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the underlying ResponseWriter.
func (gw *gzipResponseWriter) Unwrap() http.ResponseWriter {
	return gw.ResponseWriter
}
