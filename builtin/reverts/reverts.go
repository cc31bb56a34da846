// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
	"fmt"
)

// Reverts raised by the pool contracts. A revert aborts the whole operation
// and leaves no trace in state.
var (
	ErrInvalidInput              = New("invalid input")
	ErrTierLockConflict          = New("tier lock conflict")
	ErrPastPeriodStake           = New("stake starts in a funded period")
	ErrInvalidUnstakeAmount      = New("invalid unstake amount")
	ErrZeroHarvestAmount         = New("nothing to harvest")
	ErrInsufficientRewardBalance = New("insufficient reward balance")
	ErrUnauthorized              = New("unauthorized")
	ErrPaused                    = New("paused")
	ErrTransferFailed            = New("transfer failed")
	ErrFrozenPeriod              = New("period is frozen")
	ErrInvalidConfig             = New("invalid config")
)

type ErrRevert struct {
	message string
	detail  string
	cause   error
}

func New(message string) *ErrRevert {
	return &ErrRevert{
		message: message,
	}
}

// Withf returns a copy of the revert carrying a formatted detail.
func (e *ErrRevert) Withf(format string, args ...any) *ErrRevert {
	return &ErrRevert{
		message: e.message,
		detail:  fmt.Sprintf(format, args...),
		cause:   e.cause,
	}
}

// Wrap returns a copy of the revert caused by err.
func (e *ErrRevert) Wrap(err error) *ErrRevert {
	return &ErrRevert{
		message: e.message,
		detail:  e.detail,
		cause:   err,
	}
}

func (e *ErrRevert) Error() string {
	msg := e.message
	if e.detail != "" {
		msg += ": " + e.detail
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Unwrap returns the cause, if any.
func (e *ErrRevert) Unwrap() error {
	return e.cause
}

// Is reports whether target is the bare revert e was derived from.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	if !ok {
		return false
	}
	return t.detail == "" && t.cause == nil && t.message == e.message
}

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
