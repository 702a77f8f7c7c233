// Package execshell provides structured helpers for invoking git.
//
// ShellExecutor wraps a CommandRunner with zap logging and typed failures,
// OSCommandRunner runs processes through os/exec, and CommandEventObserver lets
// console front-ends follow each git invocation issued during a sync check.
package execshell
