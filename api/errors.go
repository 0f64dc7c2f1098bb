package api

import (
	"errors"
	"net/http"

	"github.com/prasetyowira/shortlink/constant"
	"github.com/prasetyowira/shortlink/domain/shortener"
)

// errInvalidRequest marks a request body that could not be decoded.
var errInvalidRequest = errors.New("invalid request")

type errorMapping struct {
	err    error
	status int
	msg    string
}

// errorTable maps error kinds to the HTTP status and public message sent to
// the client. Rows are matched with errors.Is in order.
var errorTable = []errorMapping{
	{errInvalidRequest, http.StatusBadRequest, constant.MsgInvalidRequest},
	{shortener.ErrInvalidURL, http.StatusBadRequest, constant.MsgIncorrectURL},
	{shortener.ErrAliasTooShort, http.StatusBadRequest, constant.MsgAliasTooShort},
	{shortener.ErrAliasExists, http.StatusBadRequest, constant.MsgAliasExists},
	{shortener.ErrNotFound, http.StatusNotFound, constant.MsgAliasNotFound},
	{shortener.ErrStorage, http.StatusInternalServerError, constant.MsgDatabaseError},
}

// translateError returns the status and public message for err. Unknown
// errors become 500 without leaking their text.
func translateError(err error) (int, string) {
	for _, m := range errorTable {
		if errors.Is(err, m.err) {
			return m.status, m.msg
		}
	}
	return http.StatusInternalServerError, constant.MsgInternalError
}
