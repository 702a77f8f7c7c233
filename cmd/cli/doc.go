// Package cli builds the vendorsync command. It layers configuration loading
// and zap logger construction on top of the sync check command from the
// audit package.
package cli
