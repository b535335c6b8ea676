// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the rejection errors returned by ledger calls.
// A revert is terminal for the call and leaves the store and all custody untouched.
package reverts

import (
	"errors"
)

// Kind classifies a revert.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotFound
	KindNotAuthorized
	KindInvalidState
	KindMalformedBundle
	KindInsufficientFunds
	KindInvalidParameter
	KindNothingToClaim
)

var kindNames = map[Kind]string{
	KindUnknown:           "Unknown",
	KindNotFound:          "NotFound",
	KindNotAuthorized:     "NotAuthorized",
	KindInvalidState:      "InvalidState",
	KindMalformedBundle:   "MalformedBundle",
	KindInsufficientFunds: "InsufficientFunds",
	KindInvalidParameter:  "InvalidParameter",
	KindNothingToClaim:    "NothingToClaim",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

func NotFound(message string) *ErrRevert          { return New(KindNotFound, message) }
func NotAuthorized(message string) *ErrRevert     { return New(KindNotAuthorized, message) }
func InvalidState(message string) *ErrRevert      { return New(KindInvalidState, message) }
func MalformedBundle(message string) *ErrRevert   { return New(KindMalformedBundle, message) }
func InsufficientFunds(message string) *ErrRevert { return New(KindInsufficientFunds, message) }
func InvalidParameter(message string) *ErrRevert  { return New(KindInvalidParameter, message) }
func NothingToClaim(message string) *ErrRevert    { return New(KindNothingToClaim, message) }

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the revert wrapped in err, or KindUnknown.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return KindUnknown
}

// Is reports whether err is a revert of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
