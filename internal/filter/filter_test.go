package filter

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vburojevic/ltail/internal/domain"
	"github.com/vburojevic/ltail/internal/format"
	"github.com/vburojevic/ltail/internal/parser"
)

var sample = []string{
	"   at Orphan.Continuation()",
	"2024-01-01 10:00:00 [INFO] Svc started",
	"2024-01-01 10:00:01 [ERROR] Svc failed to connect",
	"   at Foo.Bar() in Foo.cs:line 12",
	"   --- inner timeout ---",
	"2024-01-01 10:00:02 [WARNING] Svc retrying",
	"2024-01-02 00:30:00 [EROR] Db deadlock",
}

func defaultParser() *parser.LineParser {
	return parser.New(format.Default())
}

func block(lines ...string) *domain.Block {
	return &domain.Block{Lines: lines}
}

func TestBlocks(t *testing.T) {
	blocks := Blocks(sample, defaultParser())
	require.Len(t, blocks, 4)
	assert.Equal(t, sample[1], blocks[0].Header())
	assert.Equal(t, []string{sample[2], sample[3], sample[4]}, blocks[1].Lines)
	assert.Empty(t, Blocks([]string{"just", "continuations"}, defaultParser()))
}

func TestLevelFilter(t *testing.T) {
	p := defaultParser()
	tests := []struct {
		name   string
		levels []string
		header string
		want   bool
	}{
		{"empty set passes", nil, "2024-01-01 10:00:00 [INFO] Svc x", true},
		{"raw token", []string{"error"}, "2024-01-01 10:00:00 [ERROR] Svc x", true},
		{"canonical name matches alias token", []string{"ERROR"}, "2024-01-01 10:00:00 [EROR] Svc x", true},
		{"raw alias token", []string{"EROR"}, "2024-01-01 10:00:00 [EROR] Svc x", true},
		{"not selected", []string{"ERROR"}, "2024-01-01 10:00:00 [INFO] Svc x", false},
		{"lowercase token in line", []string{"WARNING"}, "2024-01-01 10:00:00 [warning] Svc x", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewLevelFilter(domain.NewLevelSet(tt.levels...), p)
			assert.Equal(t, tt.want, f.Match(block(tt.header)))
		})
	}

	t.Run("canonical names across formats", func(t *testing.T) {
		serilog := parser.New(format.NewRegistry().GetByName("serilog"))
		f := NewLevelFilter(domain.NewLevelSet("warning"), serilog)
		assert.True(t, f.Match(block("2024-01-01 10:00:00.000 +00:00 [WRN] slow")))
		assert.False(t, f.Match(block("2024-01-01 10:00:00.000 +00:00 [INF] fine")))
	})
}

func TestMinLevelFilter(t *testing.T) {
	p := defaultParser()
	f := NewMinLevelFilter(domain.LevelWarning, p)
	assert.False(t, f.Match(block("2024-01-01 10:00:00 [INFO] Svc x")))
	assert.True(t, f.Match(block("2024-01-01 10:00:00 [WARNING] Svc x")))
	assert.True(t, f.Match(block("2024-01-01 10:00:00 [FATAL] Svc x")))
	assert.True(t, NewMinLevelFilter("", p).Match(block("2024-01-01 10:00:00 [INFO] Svc x")))
}

func TestTextFilter(t *testing.T) {
	b := block("2024-01-01 10:00:00 [ERROR] Svc failed", "   System.TimeoutException: Took too long")
	assert.True(t, NewTextFilter("").Match(b))
	assert.True(t, NewTextFilter("   ").Match(b))
	assert.True(t, NewTextFilter("timeoutexception").Match(b))
	assert.True(t, NewTextFilter("SVC FAILED").Match(b))
	assert.False(t, NewTextFilter("deadlock").Match(b))
}

func TestRegexAndExclude(t *testing.T) {
	b := block("2024-01-01 10:00:00 [ERROR] Svc failed", "   at Db.Query()")

	re, err := NewRegexFilter(`Db\.\w+\(`)
	require.NoError(t, err)
	assert.True(t, re.Match(b))

	ex, err := NewExcludePatternFilter(`Db\.`)
	require.NoError(t, err)
	assert.False(t, ex.Match(b))

	_, err = NewRegexFilter("(")
	assert.Error(t, err)
	_, err = NewExcludePatternFilter("(")
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	p := defaultParser()

	t.Run("empty chain matches all", func(t *testing.T) {
		assert.True(t, NewChain().Match(block("anything")))
	})

	t.Run("all filters must pass", func(t *testing.T) {
		chain := NewChain(NewLevelFilter(domain.NewLevelSet("ERROR"), p), NewTextFilter("connect"))
		assert.True(t, chain.Match(block("2024-01-01 10:00:00 [ERROR] Svc failed to connect")))
		assert.False(t, chain.Match(block("2024-01-01 10:00:00 [ERROR] Svc failed")))
		assert.False(t, chain.Match(block("2024-01-01 10:00:00 [INFO] Svc connect")))
	})

	t.Run("or chain", func(t *testing.T) {
		or := NewOrChain(NewTextFilter("alpha"), NewTextFilter("beta"))
		assert.True(t, or.Match(block("x beta")))
		assert.False(t, or.Match(block("gamma")))
		assert.True(t, NewOrChain().Match(block("gamma")))
	})
}

func TestParseTimestamp(t *testing.T) {
	local := func(y int, m time.Month, d, h, min, s, ns int) time.Time {
		return time.Date(y, m, d, h, min, s, ns, time.Local)
	}
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-04 05:06:07", local(2024, 3, 4, 5, 6, 7, 0)},
		{"2024-03-04 05:06:07.123", local(2024, 3, 4, 5, 6, 7, 123_000_000)},
		{"2024-03-04 05:06:07.1234567", local(2024, 3, 4, 5, 6, 7, 123_456_700)},
		{"2024-03-04T05:06:07", local(2024, 3, 4, 5, 6, 7, 0)},
		{"04/03/2024 05:06:07", local(2024, 3, 4, 5, 6, 7, 0)},
		{"12/31/2024 05:06:07", local(2024, 12, 31, 5, 6, 7, 0)},
		{"2024/03/04 05:06:07", local(2024, 3, 4, 5, 6, 7, 0)},
		{"2024-03-04 05:06:07,250", local(2024, 3, 4, 5, 6, 7, 250_000_000)},
		{"2024-03-04", local(2024, 3, 4, 0, 0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
		})
	}

	t.Run("offset", func(t *testing.T) {
		got, ok := ParseTimestamp("2024-03-04 05:06:07.000 +02:00")
		require.True(t, ok)
		assert.True(t, time.Date(2024, 3, 4, 3, 6, 7, 0, time.UTC).Equal(got))
	})

	for _, bad := range []string{"", "yesterday", "10:00", "2024-13-45 99:99:99"} {
		_, ok := ParseTimestamp(bad)
		assert.False(t, ok, bad)
	}
}

func TestEndOfDay(t *testing.T) {
	midnight := time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999_999_900, time.Local), EndOfDay(midnight))

	noon := time.Date(2024, 1, 31, 12, 0, 0, 0, time.Local)
	assert.Equal(t, noon, EndOfDay(noon))
}

func TestTimeRangeFilter(t *testing.T) {
	p := defaultParser()
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

	t.Run("disabled or unbounded returns nil", func(t *testing.T) {
		assert.Nil(t, NewTimeRangeFilter(false, &day, &day, p))
		assert.Nil(t, NewTimeRangeFilter(true, nil, nil, p))
		var f *TimeRangeFilter
		assert.True(t, f.Match(block("anything")))
	})

	t.Run("midnight upper bound includes the whole day", func(t *testing.T) {
		f := NewTimeRangeFilter(true, nil, &day, p)
		assert.True(t, f.Match(block("2024-01-01 23:59:59.999 [INFO] Svc late")))
		assert.False(t, f.Match(block("2024-01-02 00:00:00 [INFO] Svc next day")))
	})

	t.Run("lower bound", func(t *testing.T) {
		from := time.Date(2024, 1, 1, 10, 0, 1, 0, time.Local)
		f := NewTimeRangeFilter(true, &from, nil, p)
		assert.False(t, f.Match(block("2024-01-01 10:00:00 [INFO] Svc x")))
		assert.True(t, f.Match(block("2024-01-01 10:00:01 [INFO] Svc x")))
	})

	t.Run("unparsable timestamp is excluded", func(t *testing.T) {
		f := NewTimeRangeFilter(true, &day, nil, p)
		assert.False(t, f.Match(block("99-99-9999 garbage [INFO] Svc x")))
	})

	t.Run("bounds are copied", func(t *testing.T) {
		to := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)
		f := NewTimeRangeFilter(true, nil, &to, p)
		to = to.Add(-24 * time.Hour)
		assert.True(t, f.Match(block("2024-01-01 11:00:00 [INFO] Svc x")))
	})
}

func TestApply(t *testing.T) {
	p := defaultParser()

	t.Run("no filters keeps every block and drops orphans", func(t *testing.T) {
		got := Apply(sample, domain.TailOptions{}, p)
		assert.Equal(t, sample[1:], got)
	})

	t.Run("error block keeps its continuation lines", func(t *testing.T) {
		lines := []string{
			"2024-01-01 10:00:00 [INFO] A",
			"2024-01-01 10:00:01 [ERROR] B",
			"   at X",
		}
		opts := domain.TailOptions{Levels: domain.NewLevelSet("ERROR")}
		assert.Equal(t, lines[1:], Apply(lines, opts, p))
	})

	t.Run("text matches continuation line", func(t *testing.T) {
		opts := domain.TailOptions{TextFilter: "inner timeout"}
		assert.Equal(t, sample[2:5], Apply(sample, opts, p))
	})

	t.Run("combined filters", func(t *testing.T) {
		to := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
		opts := domain.TailOptions{
			Levels:           domain.NewLevelSet("ERROR,WARNING"),
			TimeRangeEnabled: true,
			To:               &to,
			Exclude:          []*regexp.Regexp{regexp.MustCompile("retrying")},
		}
		assert.Equal(t, sample[2:5], Apply(sample, opts, p))
	})

	t.Run("match patterns are ORed", func(t *testing.T) {
		opts := domain.TailOptions{Match: []*regexp.Regexp{
			regexp.MustCompile("deadlock"),
			regexp.MustCompile("started"),
		}}
		assert.Equal(t, []string{sample[1], sample[6]}, Apply(sample, opts, p))
	})

	t.Run("idempotent", func(t *testing.T) {
		optsList := []domain.TailOptions{
			{},
			{Levels: domain.NewLevelSet("ERROR")},
			{TextFilter: "svc"},
			{MinLevel: domain.LevelWarning},
		}
		for _, opts := range optsList {
			once := Apply(sample, opts, p)
			assert.Equal(t, once, Apply(once, opts, p))
		}
	})
}
