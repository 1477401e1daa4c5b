package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/ltail/internal/format"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestFileRejections(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		res := File(filepath.Join(t.TempDir(), "nope.log"), nil)
		assert.False(t, res.Valid)
		assert.Equal(t, ReasonFileNotFound, res.Reason)
	})

	t.Run("directory", func(t *testing.T) {
		res := File(t.TempDir(), nil)
		assert.Equal(t, ReasonIsDirectory, res.Reason)
	})

	t.Run("binary", func(t *testing.T) {
		data := append([]byte("2024-01-01 10:00:00 [INFO] x\n"), make([]byte, 64)...)
		res := File(writeFile(t, "app.bin", data), nil)
		assert.Equal(t, ReasonBinary, res.Reason)
	})

	t.Run("empty", func(t *testing.T) {
		res := File(writeFile(t, "empty.log", nil), nil)
		assert.Equal(t, ReasonNoLogPatterns, res.Reason)
		assert.Equal(t, "File appears to be empty.", res.Message)
	})

	t.Run("prose", func(t *testing.T) {
		data := strings.Repeat("the quick brown fox jumps over the lazy dog\n", 50)
		res := File(writeFile(t, "notes.txt", []byte(data)), nil)
		assert.Equal(t, ReasonNoLogPatterns, res.Reason)
		assert.Contains(t, res.Message, "Only 0%")
	})
}

func TestTextLogs(t *testing.T) {
	t.Run("built-in header", func(t *testing.T) {
		data := "2024-01-01 10:00:00 [ERROR] Svc failed\n   at Svc.Run()\n"
		res := File(writeFile(t, "app.log", []byte(data)), nil)
		assert.True(t, res.Valid, res.Message)
	})

	t.Run("generic timestamp and level", func(t *testing.T) {
		data := "Jan 01 10:00:00 host app WARN disk low\n"
		res := File(writeFile(t, "syslog", []byte(data)), nil)
		assert.True(t, res.Valid, res.Message)
	})

	t.Run("threshold", func(t *testing.T) {
		var b strings.Builder
		b.WriteString("2024-01-01 10:00:00 [INFO] Svc one\n")
		for i := 0; i < 9; i++ {
			fmt.Fprintf(&b, "plain line %d\n", i)
		}
		assert.True(t, Content([]byte(b.String()), nil).Valid, "1 of 10 lines is enough")

		b.WriteString("plain line 10\n")
		assert.False(t, Content([]byte(b.String()), nil).Valid, "1 of 11 lines is not")
	})

	t.Run("custom format", func(t *testing.T) {
		custom, err := format.New(format.Spec{
			Name:         "Pipes",
			LevelPattern: `\|(?P<level>[A-Z]+)\|`,
		})
		require.NoError(t, err)
		data := "12345678 |NOTE| something long enough\n"
		assert.False(t, Content([]byte(data), nil).Valid)
		assert.True(t, Content([]byte(data), []format.Descriptor{custom}).Valid)
	})

	t.Run("broken descriptor skipped", func(t *testing.T) {
		data := "2024-01-01 10:00:00 [INFO] Svc one\n"
		res := Content([]byte(data), []format.Descriptor{{Name: "broken"}})
		assert.True(t, res.Valid, "generic patterns still apply")
	})
}

func TestJSONLogs(t *testing.T) {
	t.Run("array of entries", func(t *testing.T) {
		data := `[{"timestamp":"2024-01-01T10:00:00Z","level":"info","message":"up"},{"time":"x","msg":"y"}]`
		assert.True(t, Content([]byte(data), nil).Valid)
	})

	t.Run("single entry", func(t *testing.T) {
		data := `{"Level":"Error","Message":"boom"}`
		assert.True(t, Content([]byte(data), nil).Valid)
	})

	t.Run("not a log", func(t *testing.T) {
		data := `{"name":"ltail","version":"1.0.0"}`
		res := Content([]byte(data), nil)
		assert.Equal(t, ReasonInvalidJSON, res.Reason)
	})

	t.Run("array below threshold", func(t *testing.T) {
		var parts []string
		for i := 0; i < 20; i++ {
			parts = append(parts, fmt.Sprintf(`{"id":%d}`, i))
		}
		parts[0] = `{"level":"info","msg":"ok"}`
		res := Content([]byte("["+strings.Join(parts, ",")+"]"), nil)
		assert.Equal(t, ReasonInvalidJSON, res.Reason, "1 of 20 elements")
	})

	t.Run("malformed json is checked as text", func(t *testing.T) {
		data := "{2024-01-01 10:00:00 [INFO] Svc started\n"
		res := Content([]byte(data), nil)
		assert.NotEqual(t, ReasonInvalidJSON, res.Reason)
	})
}

func TestIsBinary(t *testing.T) {
	assert.False(t, isBinary([]byte("plain text\twith tabs\r\n\x1b[31mred\x1b[0m")))
	assert.True(t, isBinary([]byte{'a', 'b', 0, 'c'}))
	assert.True(t, isBinary([]byte{1, 2, 3, 'a'}))
	assert.False(t, isBinary(nil))
}
