// SPDX-License-Identifier: MPL-2.0

// Package session assembles a ready-to-use resolver from a loaded
// configuration. It is the composition root shared by the CLI and tests:
// one Session owns one host runtime, one loader and one namespace registry,
// with every configured namespace bound and every member registered.
package session
