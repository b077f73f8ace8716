// Package hcl provides the concrete HCL implementation of config.Loader. It
// is responsible for file discovery, parsing, and translating the decoded
// blocks into the format-agnostic config.Model.
package hcl
