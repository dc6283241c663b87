package middleware

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"costservice/internal/config"

	"github.com/gin-gonic/gin"
)

// Response types that are already compressed and gain nothing from gzip
var excludedContentTypes = []string{
	"image/",
	"video/",
	"audio/",
	"application/gzip",
	"application/zip",
}

var errBadRequestEncoding = errors.New("request body is not valid gzip")

// CompressionConfig holds configuration for the compression middleware
type CompressionConfig struct {
	// Minimum content length to trigger compression
	MinLength int
	// Gzip compression level (1-9, higher = better compression but slower)
	Level int
}

// DefaultCompressionConfig returns the default compression configuration
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinLength: config.DefaultCompressionMinLength,
		Level:     gzip.DefaultCompression,
	}
}

// CompressionConfigFrom builds the middleware configuration from the service config
func CompressionConfigFrom(cfg config.CompressionConfig) CompressionConfig {
	c := DefaultCompressionConfig()
	c.MinLength = cfg.MinLength
	return c
}

// Compression returns a middleware that decodes gzip request bodies and gzips
// responses for clients that accept it. Responses a handler has already
// encoded, such as the Prometheus exposition, pass through untouched.
func Compression(cfg CompressionConfig) gin.HandlerFunc {
	pool := &sync.Pool{
		New: func() any {
			gz, err := gzip.NewWriterLevel(io.Discard, cfg.Level)
			if err != nil {
				gz = gzip.NewWriter(io.Discard)
			}
			return gz
		},
	}

	return func(c *gin.Context) {
		if err := decodeRequestBody(c.Request); err != nil {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}

		if !acceptsGzip(c.Request.Header.Get("Accept-Encoding")) {
			c.Next()
			return
		}

		w := &bufferedGzipWriter{
			ResponseWriter: c.Writer,
			minLength:      cfg.MinLength,
			pool:           pool,
		}
		c.Writer = w
		c.Header("Vary", "Accept-Encoding")

		c.Next()

		if err := w.flushBuffer(); err != nil {
			_ = c.Error(err)
		}
	}
}

// decodeRequestBody replaces a gzip request body with its decoded bytes
func decodeRequestBody(req *http.Request) error {
	if !strings.EqualFold(req.Header.Get("Content-Encoding"), "gzip") {
		return nil
	}

	reader, err := gzip.NewReader(req.Body)
	if err != nil {
		return errBadRequestEncoding
	}
	defer reader.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		return errBadRequestEncoding
	}
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.ContentLength = int64(len(body))
	req.Header.Del("Content-Encoding")
	return nil
}

// acceptsGzip reports whether an Accept-Encoding value allows gzip. An
// explicit q=0 for gzip or * refuses it.
func acceptsGzip(header string) bool {
	for _, part := range strings.Split(header, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		coding = strings.ToLower(strings.TrimSpace(coding))
		if coding != "gzip" && coding != "*" {
			continue
		}
		if q, ok := qualityOf(params); ok && q == 0 {
			return false
		}
		return true
	}
	return false
}

func qualityOf(params string) (float64, bool) {
	for _, p := range strings.Split(params, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(p), "=")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "q") {
			continue
		}
		q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		return q, true
	}
	return 0, false
}

// bufferedGzipWriter holds the body until the handler chain returns so the
// size threshold and the final headers can be inspected
type bufferedGzipWriter struct {
	gin.ResponseWriter
	minLength int
	pool      *sync.Pool
	buf       bytes.Buffer
}

func (w *bufferedGzipWriter) Write(data []byte) (int, error) {
	return w.buf.Write(data)
}

func (w *bufferedGzipWriter) WriteString(s string) (int, error) {
	return w.buf.WriteString(s)
}

// shouldEncode decides, once the handler is done, whether to gzip the buffer
func (w *bufferedGzipWriter) shouldEncode() bool {
	h := w.Header()
	if h.Get("Content-Encoding") != "" {
		return false
	}
	if w.buf.Len() < w.minLength {
		return false
	}
	contentType := strings.ToLower(h.Get("Content-Type"))
	for _, excluded := range excludedContentTypes {
		if strings.HasPrefix(contentType, excluded) {
			return false
		}
	}
	return true
}

func (w *bufferedGzipWriter) flushBuffer() error {
	if w.buf.Len() == 0 {
		w.ResponseWriter.WriteHeaderNow()
		return nil
	}

	if !w.shouldEncode() {
		_, err := w.ResponseWriter.Write(w.buf.Bytes())
		return err
	}

	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Del("Content-Length")

	gz := w.pool.Get().(*gzip.Writer)
	defer w.pool.Put(gz)
	gz.Reset(w.ResponseWriter)

	if _, err := gz.Write(w.buf.Bytes()); err != nil {
		_ = gz.Close()
		return err
	}
	return gz.Close()
}

// Size reports the buffered length until the body is flushed
func (w *bufferedGzipWriter) Size() int {
	if !w.ResponseWriter.Written() {
		return w.buf.Len()
	}
	return w.ResponseWriter.Size()
}

func (w *bufferedGzipWriter) CloseNotify() <-chan bool {
	return w.ResponseWriter.CloseNotify()
}

func (w *bufferedGzipWriter) Flush() {
	w.ResponseWriter.Flush()
}

func (w *bufferedGzipWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.Hijack()
}
