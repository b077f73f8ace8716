// Package config defines the format-agnostic model of a planning workflow:
// the job kinds with their options, and the ordered stages that tile them.
// A Loader produces the model; concrete loaders such as HCL live in separate
// packages.
//
// The model is plain data. Components receive the parts they need at
// construction time rather than reaching back into a shared handle.
package config
