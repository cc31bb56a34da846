// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New("test")
	assert.Equal(t, "test", revert.Error())

	assert.True(t, IsRevertErr(revert))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func Test_RevertDetail(t *testing.T) {
	err := ErrInvalidInput.Withf("duration %d", 0)
	assert.Equal(t, "invalid input: duration 0", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
	assert.True(t, IsRevertErr(errors.Wrap(err, "stake")))

	// the sentinel itself is never mutated
	assert.Equal(t, "invalid input", ErrInvalidInput.Error())
}

func Test_RevertCause(t *testing.T) {
	cause := errors.New("insufficient balance")
	err := ErrTransferFailed.Wrap(cause)

	assert.Equal(t, "transfer failed: insufficient balance", err.Error())
	assert.ErrorIs(t, err, ErrTransferFailed)
	assert.ErrorIs(t, err, cause)
}
