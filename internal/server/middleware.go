package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Encoding")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("client_ip", clientIP(r)),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// readBody returns the request body, transparently inflating a gzip
// payload. A body that claims gzip but fails to inflate degrades to the
// raw bytes instead of failing the request; the JSON parse downstream
// decides whether those bytes mean anything.
func (s *Server) readBody(r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(r.Header.Get("Content-Encoding"), "gzip") {
		return raw, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		s.logger.Warn("gzip body failed to decode, using raw bytes", zap.Error(err))
		return raw, nil
	}
	defer zr.Close()

	inflated, err := io.ReadAll(zr)
	if err != nil {
		s.logger.Warn("gzip body failed to decode, using raw bytes", zap.Error(err))
		return raw, nil
	}
	return inflated, nil
}
