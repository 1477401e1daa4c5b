package tail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vburojevic/ltail/internal/errs"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func numberedLines(n int) string {
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "2024-01-01 10:00:00 [INFO] Svc line %04d\n", i)
	}
	return sb.String()
}

func TestReadLast(t *testing.T) {
	t.Run("large file keeps the tail", func(t *testing.T) {
		path := writeFile(t, numberedLines(1000))

		lines, err := ReadLast(path, 10)
		require.NoError(t, err)
		require.NotEmpty(t, lines)
		assert.LessOrEqual(t, len(lines), 50)
		assert.Equal(t, "2024-01-01 10:00:00 [INFO] Svc line 1000", lines[len(lines)-1])

		// every returned line is complete and in order
		for i := 1; i < len(lines); i++ {
			assert.True(t, strings.HasPrefix(lines[i], "2024-01-01"), lines[i])
			assert.Less(t, lines[i-1], lines[i])
		}
	})

	t.Run("small file keeps its first line", func(t *testing.T) {
		path := writeFile(t, "first\nsecond\nthird")
		lines, err := ReadLast(path, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second", "third"}, lines)
	})

	t.Run("crlf and blank lines", func(t *testing.T) {
		path := writeFile(t, "a\r\n\r\nb\r\n\n")
		lines, err := ReadLast(path, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, lines)
	})

	t.Run("caps at five lines per entry", func(t *testing.T) {
		path := writeFile(t, numberedLines(30))
		lines, err := ReadLast(path, 2)
		require.NoError(t, err)
		assert.Len(t, lines, 10)
		assert.Contains(t, lines[0], "line 0021")
	})

	t.Run("clipped first line is dropped", func(t *testing.T) {
		// one very long line followed by short ones: the long line straddles
		// the chunk boundary and must not appear truncated
		long := strings.Repeat("x", ChunkSize*2)
		path := writeFile(t, long+"\nshort-1\nshort-2\n")
		lines, err := ReadLast(path, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"short-1", "short-2"}, lines)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "")
		lines, err := ReadLast(path, 10)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("non-positive count", func(t *testing.T) {
		path := writeFile(t, "a\n")
		lines, err := ReadLast(path, 0)
		require.NoError(t, err)
		assert.Nil(t, lines)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadLast(filepath.Join(t.TempDir(), "gone.log"), 10)
		assert.ErrorIs(t, err, errs.ErrFileNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := ReadLast(t.TempDir(), 10)
		assert.ErrorIs(t, err, errs.ErrUnclassified)
	})
}
