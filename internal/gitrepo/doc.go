// Package gitrepo answers read-only questions about objects stored in a git repository.
//
// RevisionReader looks up file existence and content at a revision through
// git cat-file so sync checks never depend on the state of the working tree.
package gitrepo
