// Package app wires configuration loading, catalog and segment input,
// stage planning, and plan output into a single run, decoupled from any
// specific entrypoint like a CLI.
package app
