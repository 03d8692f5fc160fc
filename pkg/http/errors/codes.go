package errors

import "net/http"

// Fixed messages returned for each error status.
const (
	MsgBadRequest       = "Bad request"
	MsgUnauthorized     = "Unauthorized"
	MsgForbidden        = "Forbidden"
	MsgNotFound         = "Not found"
	MsgMethodNotAllowed = "Method not allowed"
	MsgUnprocessable    = "unprocessable"
	MsgInternalError    = "Internal server error"
)

var messages = map[int]string{
	http.StatusBadRequest:          MsgBadRequest,
	http.StatusUnauthorized:        MsgUnauthorized,
	http.StatusForbidden:           MsgForbidden,
	http.StatusNotFound:            MsgNotFound,
	http.StatusMethodNotAllowed:    MsgMethodNotAllowed,
	http.StatusUnprocessableEntity: MsgUnprocessable,
	http.StatusInternalServerError: MsgInternalError,
}

// Message returns the fixed message for status, falling back to the
// standard status text.
func Message(status int) string {
	if msg, ok := messages[status]; ok {
		return msg
	}
	return http.StatusText(status)
}
