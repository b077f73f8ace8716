// Package registry maps job kind names, as used in workflow configuration
// (e.g. "matched_filter"), to the compiled Go parts implementing them: a
// tiling profile provider and a node builder.
//
// Kinds are registered by modules at startup and the registry is then
// validated against the loaded configuration, so a misspelled kind or a
// stage mode the kind cannot serve fails before any planning starts.
package registry
