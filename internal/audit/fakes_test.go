package audit_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/vendorsync/internal/digest"
	"github.com/temirov/vendorsync/internal/gitrepo"
	"github.com/temirov/vendorsync/internal/mapping"
	"github.com/temirov/vendorsync/internal/upstream"
)

const (
	testReferenceConstant = upstream.Reference("upstream/main")
	testLibraryConstant   = "css-zero"
	testGeneratorConstant = "css_zero"
)

// revisionStore is an in-memory object database keyed by revision:path.
type revisionStore struct {
	blobs       map[string][]byte
	unreadable  map[string]bool
	existsCalls []string
	readCalls   []string
}

func newRevisionStore() *revisionStore {
	return &revisionStore{blobs: map[string][]byte{}, unreadable: map[string]bool{}}
}

func (store *revisionStore) put(path string, content string) {
	store.blobs[gitrepo.RevisionPath(testReferenceConstant.String(), path)] = []byte(content)
}

func (store *revisionStore) markUnreadable(path string) {
	store.put(path, "")
	store.unreadable[gitrepo.RevisionPath(testReferenceConstant.String(), path)] = true
}

func (store *revisionStore) Exists(_ context.Context, revision string, path string) bool {
	key := gitrepo.RevisionPath(revision, path)
	store.existsCalls = append(store.existsCalls, key)
	_, exists := store.blobs[key]
	return exists
}

func (store *revisionStore) Read(_ context.Context, revision string, path string) ([]byte, bool) {
	key := gitrepo.RevisionPath(revision, path)
	store.readCalls = append(store.readCalls, key)
	if store.unreadable[key] {
		return nil, false
	}
	content, exists := store.blobs[key]
	return content, exists
}

type stubResolver struct {
	resolution upstream.Resolution
	err        error
	calls      int
}

func (resolver *stubResolver) Resolve(context.Context) (upstream.Resolution, error) {
	resolver.calls++
	return resolver.resolution, resolver.err
}

func newDefaultPathMapper(testInstance *testing.T) *mapping.PathMapper {
	testInstance.Helper()
	rules, rulesError := mapping.DefaultRules()
	require.NoError(testInstance, rulesError)
	return mapping.NewPathMapper(rules, mapping.Placeholders{Library: testLibraryConstant, Generator: testGeneratorConstant})
}

func newHasher(testInstance *testing.T) digest.Hasher {
	testInstance.Helper()
	hasher, hasherError := digest.NewHasher(digest.AlgorithmBlake3)
	require.NoError(testInstance, hasherError)
	return hasher
}

func writeFiles(testInstance *testing.T, directory string, files map[string]string) {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(directory, 0o755))
	for name, content := range files {
		require.NoError(testInstance, os.WriteFile(filepath.Join(directory, name), []byte(content), 0o600))
	}
}

func componentStylesheetPath(filename string) string {
	return "lib/generators/css_zero/add/templates/app/assets/stylesheets/" + filename
}

func controllerPath(filename string) string {
	return "lib/generators/css_zero/add/templates/app/javascript/controllers/" + filename
}
