package manifest

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	directivePatternTemplateConstant   = `@import url\("%s/([^"]+)"\)`
	defaultExtensionConstant           = ".css"
	extensionSeparatorConstant         = "."
	scanErrorTemplateConstant          = "scan bundle: %w"
	invalidSubdirectoryErrorMessage    = "import subdirectory must not be empty"
	lineBufferInitialCapacityConstant  = 64 * 1024
	lineBufferMaximumCapacityConstant  = 1024 * 1024
	firstLineNumberConstant            = 1
	directiveNameSubmatchIndexConstant = 1
)

// ErrInvalidGrammar indicates a grammar that cannot be constructed.
var ErrInvalidGrammar = errors.New("invalid import grammar")

// ImportEntry is one import extracted from a bundle file.
// Filename always carries the extension.
type ImportEntry struct {
	Name     string
	Filename string
	Line     int
}

// Grammar extracts import entries from bundle file content in order of appearance.
type Grammar interface {
	Parse(content []byte) ([]ImportEntry, error)
}

// DirectiveGrammar recognises exactly @import url("<subdirectory>/<name>").
type DirectiveGrammar struct {
	extension string
	directive *regexp.Regexp
}

// NewDirectiveGrammar builds a grammar for imports under subdirectory.
// Names lacking extension have it appended; an empty extension defaults to ".css".
func NewDirectiveGrammar(subdirectory string, extension string) (*DirectiveGrammar, error) {
	trimmedSubdirectory := strings.Trim(strings.TrimSpace(subdirectory), "/")
	if len(trimmedSubdirectory) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidGrammar, invalidSubdirectoryErrorMessage)
	}

	normalizedExtension := strings.TrimSpace(extension)
	if len(normalizedExtension) == 0 {
		normalizedExtension = defaultExtensionConstant
	}
	if !strings.HasPrefix(normalizedExtension, extensionSeparatorConstant) {
		normalizedExtension = extensionSeparatorConstant + normalizedExtension
	}

	return &DirectiveGrammar{
		extension: normalizedExtension,
		directive: regexp.MustCompile(fmt.Sprintf(directivePatternTemplateConstant, regexp.QuoteMeta(trimmedSubdirectory))),
	}, nil
}

// Parse implements Grammar.
func (grammar *DirectiveGrammar) Parse(content []byte) ([]ImportEntry, error) {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, lineBufferInitialCapacityConstant), lineBufferMaximumCapacityConstant)

	entries := []ImportEntry{}
	lineNumber := firstLineNumberConstant
	for scanner.Scan() {
		for _, submatch := range grammar.directive.FindAllStringSubmatch(scanner.Text(), -1) {
			name := submatch[directiveNameSubmatchIndexConstant]
			entries = append(entries, ImportEntry{
				Name:     name,
				Filename: grammar.normalizeFilename(name),
				Line:     lineNumber,
			})
		}
		lineNumber++
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf(scanErrorTemplateConstant, scanError)
	}
	return entries, nil
}

func (grammar *DirectiveGrammar) normalizeFilename(name string) string {
	return strings.TrimSuffix(name, grammar.extension) + grammar.extension
}
