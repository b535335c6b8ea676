// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/yokaihunt/custody/reverts"
	"github.com/yokaihunt/custody/yokai"
)

// httpError carries the status a handler failed with.
type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string { return e.cause.Error() }
func (e *httpError) Unwrap() error { return e.cause }

// BadRequest fails the request with 400.
func BadRequest(cause error) error { return &httpError{cause, http.StatusBadRequest} }

// Forbidden fails the request with 403, used when a query exceeds the configured limits.
func Forbidden(cause error) error { return &httpError{cause, http.StatusForbidden} }

// NotFound fails the request with 404.
func NotFound(cause error) error { return &httpError{cause, http.StatusNotFound} }

// revertStatus maps a rejected call to its http status.
func revertStatus(kind reverts.Kind) int {
	switch kind {
	case reverts.KindNotFound:
		return http.StatusNotFound
	case reverts.KindNotAuthorized:
		return http.StatusForbidden
	case reverts.KindInvalidState, reverts.KindNothingToClaim:
		return http.StatusConflict
	case reverts.KindInsufficientFunds:
		return http.StatusPaymentRequired
	default:
		return http.StatusBadRequest
	}
}

// RevertResponse is the body of a rejected call.
type RevertResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// HandlerFunc is an http.HandlerFunc that fails with an error.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc responds the error of f. Status errors keep their status,
// rejected calls are answered with their kind, anything else is a 500.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		var he *httpError
		switch {
		case err == nil:
		case errors.As(err, &he):
			http.Error(w, he.Error(), he.status)
		case reverts.IsRevertErr(err):
			kind := reverts.KindOf(err)
			w.Header().Set("Content-Type", JSONContentType)
			w.WriteHeader(revertStatus(kind))
			_ = json.NewEncoder(w).Encode(&RevertResponse{Kind: kind.String(), Message: err.Error()})
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

const JSONContentType = "application/json; charset=utf-8"

// ParseJSON decodes v and rejects unknown fields.
func ParseJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// ParseBody parses the JSON request body, a malformed body is a bad request.
func ParseBody(r *http.Request, v any) error {
	if err := ParseJSON(r.Body, v); err != nil {
		return BadRequest(errors.WithMessage(err, "body"))
	}
	return nil
}

// WriteJSON encodes obj as the response body.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// ParseUint64Var parses the named route variable.
func ParseUint64Var(r *http.Request, name string) (uint64, error) {
	v, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// ParseAddressVar parses the named route variable.
func ParseAddressVar(r *http.Request, name string) (yokai.Address, error) {
	addr, err := yokai.ParseAddress(mux.Vars(r)[name])
	if err != nil {
		return yokai.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}
