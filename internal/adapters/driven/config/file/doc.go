// Package file provides the TOML-backed implementation of the config store
// port. Configuration lives in ~/.showroom/config.toml by default.
package file
