package net

import (
	"net/http"

	perr "chromalyzer/internal/platform/errors"
)

// Wire is the error body written by middleware that runs outside handlers
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
}

// Error maps err to its status and wire body. A nil err is a bare 200
func Error(err error, reqID string) (int, Wire) {
	status := http.StatusOK
	w := Wire{RequestID: reqID}
	if err != nil {
		status = perr.HTTPStatus(err)
		pw := perr.WireFrom(err)
		w.Code, w.Error = pw.Code, pw.Message
	}
	w.StatusCode, w.Status = status, http.StatusText(status)
	return status, w
}
