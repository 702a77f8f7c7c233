// Package ui provides helpers for formatting human-readable console output.
//
// ConsoleCommandEventLogger translates git command events into concise
// messages when console logging is selected, while detailed telemetry keeps
// flowing through the structured logger.
package ui
