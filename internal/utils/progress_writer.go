package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// ProgressWriter serializes writes to an operator-facing stream and flushes
// buffered destinations after every write so progress lines appear as they
// happen. The first failure is kept: later writes are dropped and return it.
type ProgressWriter struct {
	destination io.Writer
	mutex       sync.Mutex
	failure     error
}

// NewProgressWriter wraps destination. A destination that is already a
// ProgressWriter is returned unchanged.
func NewProgressWriter(destination io.Writer) *ProgressWriter {
	if existing, isProgressWriter := destination.(*ProgressWriter); isProgressWriter {
		return existing
	}
	if destination == nil {
		destination = io.Discard
	}
	return &ProgressWriter{destination: destination}
}

// Write implements io.Writer.
func (progressWriter *ProgressWriter) Write(data []byte) (int, error) {
	progressWriter.mutex.Lock()
	defer progressWriter.mutex.Unlock()

	if progressWriter.failure != nil {
		return 0, progressWriter.failure
	}

	bytesWritten, writeError := progressWriter.destination.Write(data)
	if writeError == nil {
		if flushable, canFlush := progressWriter.destination.(flusher); canFlush {
			writeError = flushable.Flush()
		}
	}
	if writeError != nil {
		progressWriter.failure = writeError
	}
	return bytesWritten, writeError
}

// Err returns the first write or flush failure, if any.
func (progressWriter *ProgressWriter) Err() error {
	progressWriter.mutex.Lock()
	defer progressWriter.mutex.Unlock()
	return progressWriter.failure
}
