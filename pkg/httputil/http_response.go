package httputil

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/bytedance/sonic"
)

var ErrEmptyBody = errors.New("empty request body")

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func WriteErrorResponse(w http.ResponseWriter, statusCode int, message string, details error) {
	resp := ErrorResponse{
		Code:    statusCode,
		Message: message,
	}
	if details != nil {
		resp.Details = details.Error()
	}
	WriteJSONResponse(w, statusCode, resp)
}

// WriteJSONResponse encodes body before touching the response, so an
// unencodable value turns into a 500 instead of a truncated 2xx.
func WriteJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	if body == nil {
		WriteNoContent(w, statusCode)
		return
	}
	raw, err := sonic.ConfigDefault.Marshal(body)
	if err != nil {
		slog.Error("encoding response body failed", slog.Int("status", statusCode), slog.String("error", err.Error()))
		statusCode = http.StatusInternalServerError
		raw, _ = sonic.ConfigDefault.Marshal(ErrorResponse{Code: statusCode, Message: "internal error while encoding response"})
	}
	setJSONHeaders(w)
	w.WriteHeader(statusCode)
	raw = append(raw, '\n')
	if _, err = w.Write(raw); err != nil {
		slog.Warn("writing response body failed", slog.String("error", err.Error()))
	}
}

func WriteNoContent(w http.ResponseWriter, statusCode int) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)
}

// DecodeJSON reads a single JSON value from body into dst.
func DecodeJSON(body io.Reader, dst any) error {
	err := sonic.ConfigDefault.NewDecoder(body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return ErrEmptyBody
	}
	return err
}

func setJSONHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("X-Content-Type-Options", "nosniff")
}
