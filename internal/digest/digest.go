package digest

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"

	"github.com/zeebo/blake3"
)

// Algorithm names a supported content digest.
type Algorithm string

// Supported digest algorithms.
const (
	AlgorithmBlake3 Algorithm = "blake3"
	AlgorithmMD5    Algorithm = "md5"
)

const (
	abbreviationSuffixConstant             = "..."
	unsupportedAlgorithmErrorTemplateValue = "%w: %s"
	hashWriteErrorTemplateConstant         = "hash content: %w"
)

// ErrUnsupportedAlgorithm indicates an unknown digest algorithm name.
var ErrUnsupportedAlgorithm = errors.New("unsupported digest algorithm")

// Hasher computes hex encoded content digests.
type Hasher struct {
	algorithm Algorithm
}

// ParseAlgorithm normalizes a configured algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case AlgorithmBlake3, "":
		return AlgorithmBlake3, nil
	case AlgorithmMD5:
		return AlgorithmMD5, nil
	default:
		return "", fmt.Errorf(unsupportedAlgorithmErrorTemplateValue, ErrUnsupportedAlgorithm, name)
	}
}

// NewHasher constructs a Hasher for the provided algorithm.
func NewHasher(algorithm Algorithm) (Hasher, error) {
	parsedAlgorithm, parseError := ParseAlgorithm(string(algorithm))
	if parseError != nil {
		return Hasher{}, parseError
	}
	return Hasher{algorithm: parsedAlgorithm}, nil
}

// Algorithm reports the algorithm in use.
func (hasher Hasher) Algorithm() Algorithm {
	if len(hasher.algorithm) == 0 {
		return AlgorithmBlake3
	}
	return hasher.algorithm
}

// Sum returns the lowercase hex digest of content.
func (hasher Hasher) Sum(content []byte) (string, error) {
	digestHash := hasher.newHash()
	if _, writeError := digestHash.Write(content); writeError != nil {
		return "", fmt.Errorf(hashWriteErrorTemplateConstant, writeError)
	}
	return hex.EncodeToString(digestHash.Sum(nil)), nil
}

func (hasher Hasher) newHash() hash.Hash {
	if hasher.Algorithm() == AlgorithmMD5 {
		return md5.New()
	}
	return blake3.New()
}

// Abbreviate shortens a digest to prefixLength characters followed by an ellipsis.
// A non-positive prefix length or a digest shorter than the prefix returns the digest unchanged.
func Abbreviate(digestValue string, prefixLength int) string {
	if prefixLength <= 0 || len(digestValue) <= prefixLength {
		return digestValue
	}
	return digestValue[:prefixLength] + abbreviationSuffixConstant
}
