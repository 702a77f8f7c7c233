// Package upstream resolves the remote revision vendored files are verified against.
package upstream
