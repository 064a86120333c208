// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError asks the entry point to exit with Code without printing an
// error line. Commands return it after writing their own report, for
// outcomes such as "verify found a corrupt file" where a non-zero exit
// is the answer rather than a failure of the command.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns Code.
func (e *ExitError) ExitCode() int {
	return e.Code
}
