package core

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// requestIDHeader carries the id logged for a request back to the client.
const requestIDHeader = "X-Request-Id"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	bodySize   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(data []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(data)
	rw.bodySize += n
	return n, err
}

// Flush keeps streamed MCP responses working through the wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func loggingHandler(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, requestID)
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		log.Printf("[INFO] %s | RequestID: %s | Incoming Request: %s %s | From: %s | Content-Length: %d",
			start.Format(time.RFC3339),
			requestID,
			r.Method,
			r.URL.Path,
			r.RemoteAddr,
			r.ContentLength,
		)

		handler.ServeHTTP(wrapped, r)

		log.Printf("[INFO] %s | RequestID: %s | Response Sent: %s %s | Status: %d | Duration: %v | Response Size: %d bytes",
			time.Now().Format(time.RFC3339),
			requestID,
			r.Method,
			r.URL.Path,
			wrapped.statusCode,
			time.Since(start),
			wrapped.bodySize,
		)
	})
}
