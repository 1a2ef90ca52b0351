package render

import (
	"encoding/json"
	"errors"
	"net/http"

	"stellend/core"
)

// H shortcut for a json object
type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	_ = json.NewEncoder(w).Encode(v)
}

// Text render with text
func Text(w http.ResponseWriter, t string) {
	w.Header().Set("Content-Type", "application/text")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(t))
}

// Error write error with an explicit status
func Error(w http.ResponseWriter, statusCode int, errCode core.ErrorCode, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(H{"code": errCode, "msg": err.Error()})
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusBadRequest, core.CodeOf(err), err)
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusNotFound, core.CodeOf(err), err)
}

// ErrorResponse picks the http status from the error kind
func ErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		Error(w, http.StatusUnauthorized, core.CodeOf(err), err)
	case errors.Is(err, core.ErrNotInitialized), errors.Is(err, core.ErrPriceNotSet):
		NotFoundRequest(w, err)
	case core.CodeOf(err) == core.CodeUnknown:
		Error(w, http.StatusInternalServerError, core.CodeUnknown, err)
	default:
		BadRequest(w, err)
	}
}
