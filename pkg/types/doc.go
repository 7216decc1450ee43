// SPDX-License-Identifier: MPL-2.0

// Package types defines the small value types shared by the resolver, the
// component loader and the CLI. Each type validates itself; the zero value of
// every type here is invalid.
//
// This package is a leaf dependency: it imports only the standard library.
package types
