// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	for _, c := range []ExitCode{ExitSuccess, ExitFailure, ExitUsage, ExitUnresolved, ExitLoadFailed, 255} {
		if err := c.Validate(); err != nil {
			t.Errorf("ExitCode(%d).Validate() error = %v", c, err)
		}
	}
	for _, c := range []ExitCode{-1, 256} {
		if err := c.Validate(); !errors.Is(err, ErrInvalidExitCode) {
			t.Errorf("ExitCode(%d).Validate() error = %v, want ErrInvalidExitCode", c, err)
		}
	}
	if !ExitSuccess.IsSuccess() || ExitFailure.IsSuccess() {
		t.Error("IsSuccess() mismatch")
	}
	if ExitLoadFailed.String() != "4" {
		t.Errorf("String() = %q", ExitLoadFailed.String())
	}
}
