package audit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

const listDirectoryErrorTemplateConstant = "list %s: %w"

// listLocalFiles returns the names of files in directory matching includePattern,
// sorted by name. A missing directory reports exists=false without an error.
func listLocalFiles(directory string, includePattern string) (filenames []string, exists bool, listError error) {
	entries, readError := os.ReadDir(directory)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return []string{}, false, nil
		}
		return nil, false, fmt.Errorf(listDirectoryErrorTemplateConstant, directory, readError)
	}

	filenames = []string{}
	for _, entry := range entries {
		if !isRegularFile(directory, entry) {
			continue
		}
		matched, matchError := doublestar.Match(includePattern, entry.Name())
		if matchError != nil {
			return nil, true, fmt.Errorf(listDirectoryErrorTemplateConstant, directory, matchError)
		}
		if matched {
			filenames = append(filenames, entry.Name())
		}
	}
	return filenames, true, nil
}

func isRegularFile(directory string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	targetInfo, statError := os.Stat(filepath.Join(directory, entry.Name()))
	return statError == nil && targetInfo.Mode().IsRegular()
}
