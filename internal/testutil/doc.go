// SPDX-License-Identifier: MPL-2.0

// Package testutil holds shared test helpers. It must only be imported from
// _test.go files.
package testutil
