package net

import (
	"net/http"

	perr "conflux/internal/platform/errors"
)

// Wire is the error envelope written by middleware that runs before handlers
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
}

// Error builds an error envelope with the mapped status
func Error(err error, reqID string) (int, Wire) {
	status := http.StatusOK
	if err != nil {
		status = perr.HTTPStatus(err)
	}
	w := perr.WireFrom(err)
	return status, Wire{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		RequestID:  reqID,
	}
}
