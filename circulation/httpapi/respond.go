package httpapi

import (
	"errors"
	"io"
	"net"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Code  string `json:"code"`
}

var internalErrorBody = errorBody{Error: "Internal server error", Kind: "internal", Code: "InternalError"}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := jsonAPI.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = jsonAPI.Marshal(internalErrorBody)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// StatusFor maps a failure to its HTTP status.
func StatusFor(failure core.Failure) int {
	if failure.Code == core.ErrTooManyLoginAttempts.Code {
		return http.StatusTooManyRequests
	}

	switch failure.Kind {
	case core.KindValidation:
		return http.StatusBadRequest
	case core.KindNotFound:
		return http.StatusNotFound
	case core.KindConflict:
		return http.StatusConflict
	case core.KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if failure, ok := core.AsFailure(err); ok {
		writeJSON(w, StatusFor(failure), errorBody{
			Error: failure.Error(),
			Kind:  string(failure.Kind),
			Code:  failure.Code,
		})

		return
	}

	if s.logger != nil {
		s.logger.ErrorContext(r.Context(), LogMsgInternalError,
			LogAttrMethod, r.Method,
			LogAttrPath, r.URL.Path,
			LogAttrError, err.Error(),
		)
	}

	writeJSON(w, http.StatusInternalServerError, internalErrorBody)
}

var errInvalidBody = core.ErrValidation.WithDetail("Invalid request body")

func decodeJSON(r *http.Request, target any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errInvalidBody
	}

	if len(body) == 0 {
		return errInvalidBody
	}

	if err := jsonAPI.Unmarshal(body, target); err != nil {
		return errInvalidBody
	}

	return nil
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

// flexibleID accepts an id sent as a JSON string or as a JSON number.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var text string
	if err := jsonAPI.Unmarshal(data, &text); err == nil {
		*id = flexibleID(text)
		return nil
	}

	var number jsoniter.Number
	if err := jsonAPI.Unmarshal(data, &number); err != nil {
		return errors.New("id must be a string or a number")
	}

	*id = flexibleID(number.String())

	return nil
}
