// Package testutil holds shared helpers for tests: log capture, fixture
// files and an end-to-end planning harness.
package testutil
