package logtail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/mmap"
)

const tailChunkSize = 8 * 1024

// TailResult is the outcome of a ReadTail call.
type TailResult struct {
	Lines      []string
	TotalBytes int64 // file size when the tail was taken
	EndOffset  int64 // position just past the last complete line
}

// ReadTail returns at most n complete lines from the end of the file at path
// without reading the rest of it. An unterminated final line is not included.
func ReadTail(path string, n int) (TailResult, error) {
	if n <= 0 {
		return TailResult{}, nil
	}
	r, err := mmap.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return TailResult{}, nil
		}
		return TailResult{}, fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = r.Close() }()

	return readTail(r, int64(r.Len()), n, tailChunkSize)
}

// readTail walks backwards through r in chunk-sized reads. The leading fragment
// of every chunk may continue into the older chunk, so it is carried over and
// prepended to on the next iteration.
func readTail(r io.ReaderAt, size int64, n, chunk int) (TailResult, error) {
	res := TailResult{TotalBytes: size}
	if size == 0 {
		return res, nil
	}

	var (
		newestFirst []string
		carry       []byte
		end         int64 = -1
		pos               = size
		buf               = make([]byte, chunk)
	)
	for pos > 0 && len(newestFirst) < n {
		readSize := int64(chunk)
		if pos < readSize {
			readSize = pos
		}
		pos -= readSize
		b := buf[:readSize]
		if _, err := r.ReadAt(b, pos); err != nil && !errors.Is(err, io.EOF) {
			return TailResult{TotalBytes: size}, fmt.Errorf("read log: %w", err)
		}

		data := make([]byte, 0, len(b)+len(carry))
		data = append(data, b...)
		data = append(data, carry...)
		for len(newestFirst) < n {
			idx := bytes.LastIndexByte(data, '\n')
			if idx < 0 {
				break
			}
			if end < 0 {
				// Bytes after the final separator are a line still being written.
				end = pos + int64(idx) + 1
			} else {
				newestFirst = append(newestFirst, trimCR(data[idx+1:]))
			}
			data = data[:idx]
		}
		if end < 0 {
			// Still inside the unterminated tail; nothing here is returned.
			carry = nil
			continue
		}
		carry = data
	}
	if pos == 0 && end >= 0 && len(newestFirst) < n {
		newestFirst = append(newestFirst, trimCR(carry))
	}

	if end > 0 {
		res.EndOffset = end
	}
	if len(newestFirst) == 0 {
		return res, nil
	}
	res.Lines = make([]string, len(newestFirst))
	for i, line := range newestFirst {
		res.Lines[len(newestFirst)-1-i] = line
	}
	return res, nil
}
