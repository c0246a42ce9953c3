// Package testutil contains helpers used across tests to reduce boilerplate
// when building component trees and asserting on logged diagnostics. They are
// not intended for production usage.
package testutil
