package httpapi

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/AntonStoeckl/library-circulation/circulation/shell"
)

const (
	LogMsgRequestServed = "http request served"
	LogMsgPanic         = "http handler panicked"
	LogMsgInternalError = "http request failed"
	LogMsgRenderFailed  = "html page could not be rendered"

	LogAttrMethod     = "method"
	LogAttrPath       = "path"
	LogAttrStatus     = "status"
	LogAttrDurationMS = "duration_ms"
	LogAttrRequestID  = "request_id"
	LogAttrError      = "error"
	LogAttrStack      = "stack"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		if s.logger == nil {
			return
		}

		s.logger.InfoContext(r.Context(), LogMsgRequestServed,
			LogAttrMethod, r.Method,
			LogAttrPath, r.URL.Path,
			LogAttrStatus, rec.status,
			LogAttrDurationMS, shell.ToMilliseconds(time.Since(start)),
			LogAttrRequestID, middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}

			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			if s.logger != nil {
				s.logger.ErrorContext(r.Context(), LogMsgPanic,
					LogAttrError, fmt.Sprint(rvr),
					LogAttrStack, string(debug.Stack()),
					LogAttrRequestID, middleware.GetReqID(r.Context()),
				)
			}

			writeJSON(w, http.StatusInternalServerError, internalErrorBody)
		}()

		next.ServeHTTP(w, r)
	})
}

// correlate stamps the request id on every event the request appends.
func correlate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			r = r.WithContext(shell.WithCorrelationID(r.Context(), reqID))
		}

		next.ServeHTTP(w, r)
	})
}
