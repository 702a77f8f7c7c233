// Package manifest parses bundle files into ordered import entries.
package manifest
