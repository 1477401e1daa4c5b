// Package tail reads the end of a log file without scanning it from the start.
package tail

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vburojevic/ltail/internal/errs"
)

const (
	// ChunkSize is the size of each backward read
	ChunkSize = 4096
	// Overread is how many raw lines are kept per requested entry so that
	// multi-line entries such as stack traces survive the cut
	Overread = 5
)

// ReadLast returns roughly the last entryCount entries of the file at path as
// raw lines, oldest first. At most entryCount*Overread non-empty lines are
// returned. The file is opened for each call and closed before returning.
func ReadLast(path string, entryCount int) ([]string, error) {
	if entryCount <= 0 {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errs.FromIO(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errs.FromIO(path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", errs.ErrUnclassified, path)
	}

	lines, err := readLast(f, info.Size(), entryCount)
	if err != nil {
		return nil, errs.FromIO(path, err)
	}
	return lines, nil
}

// readLast walks r backwards from size in ChunkSize steps until more than
// entryCount newlines were seen or the start was reached.
func readLast(r io.ReaderAt, size int64, entryCount int) ([]string, error) {
	var chunks [][]byte
	pos := size
	newlines := 0
	for pos > 0 && newlines <= entryCount {
		n := min(int64(ChunkSize), pos)
		pos -= n

		buf := make([]byte, n)
		read, err := r.ReadAt(buf, pos)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		buf = buf[:read]
		newlines += bytes.Count(buf, []byte{'\n'})
		chunks = append(chunks, buf)
	}

	var window []byte
	for i := len(chunks) - 1; i >= 0; i-- {
		window = append(window, chunks[i]...)
	}

	// The first line is only complete when the scan reached the start of the file.
	if pos > 0 {
		idx := bytes.IndexByte(window, '\n')
		if idx < 0 {
			return nil, nil
		}
		window = window[idx+1:]
	}

	return lastLines(string(window), entryCount*Overread), nil
}

func lastLines(text string, limit int) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines
}
