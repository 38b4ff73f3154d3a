package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fenilsonani/cachesweep/internal/classifier"
	"github.com/fenilsonani/cachesweep/internal/progress"
	"github.com/fenilsonani/cachesweep/internal/report"
	"github.com/fenilsonani/cachesweep/internal/rules"
	"github.com/fenilsonani/cachesweep/internal/scanner"
)

// =============================================================================
// Prompt Tests
// =============================================================================

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"  Y  \n", true},
		{"YES", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"sure\n", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got, err := NewPrompter(strings.NewReader(tt.input), &out).Confirm("delete these cache files?")
			if err != nil {
				t.Fatalf("Confirm failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "delete these cache files? [y/N]") {
				t.Errorf("prompt not written: %q", out.String())
			}
		})
	}
}

func TestPrompterKeepsBufferedAnswers(t *testing.T) {
	p := NewPrompter(strings.NewReader("n\ny\n"), &bytes.Buffer{})

	first, _ := p.Confirm("show the full list?")
	second, _ := p.Confirm("delete these cache files?")
	if first || !second {
		t.Errorf("answers = %v, %v; want false, true", first, second)
	}
}

// =============================================================================
// Live Progress Tests
// =============================================================================

// syncBuffer is a bytes.Buffer safe for the render goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestLiveProgressRendersCounter(t *testing.T) {
	c := progress.NewCounter()
	c.AddDir()
	c.AddEntry(true, 2048)
	c.AddEntry(false, 10)

	var out syncBuffer
	lp := NewLiveProgressWriter(&out, c, true, 200)
	lp.interval = 5 * time.Millisecond
	lp.Start()
	time.Sleep(30 * time.Millisecond)
	c.Finish()
	lp.Finish()

	got := out.String()
	if !strings.Contains(got, "\r\033[K") {
		t.Error("expected line redraws")
	}
	if !strings.Contains(got, "Scan complete") {
		t.Errorf("final line should show the finished scan: %q", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("Finish should end the status line")
	}
}

func TestLiveProgressDisabled(t *testing.T) {
	var out syncBuffer
	lp := NewLiveProgressWriter(&out, progress.NewCounter(), false, 80)
	lp.Start()
	lp.Finish()

	if out.String() != "" {
		t.Errorf("disabled progress wrote %q", out.String())
	}
}

func TestLiveProgressFinishWithoutStart(t *testing.T) {
	lp := NewLiveProgressWriter(&bytes.Buffer{}, progress.NewCounter(), true, 80)
	lp.Finish() // must not block or panic
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 8); got != "abcde..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abc", 8); got != "abc" {
		t.Errorf("short strings are kept, got %q", got)
	}
	if got := truncate("abcdef", 2); got != "abcdef" {
		t.Errorf("tiny widths are ignored, got %q", got)
	}
}

// =============================================================================
// Tree Tests
// =============================================================================

func TestPrintTree(t *testing.T) {
	b := report.NewBuilder("/scan")
	add := func(path string, size int64, c rules.Category) {
		b.Add(scanner.Result{
			Entry:    classifier.FileEntry{Path: path, Name: path[strings.LastIndex(path, "/")+1:], Size: size},
			Category: c,
			Matched:  true,
		})
	}
	for i := 0; i < 7; i++ {
		add("/scan/tmp/f"+string(rune('a'+i))+".tmp", 1, rules.Temporary)
	}
	add("/scan/Chrome/Default/Cache/data_0", 100, rules.Browser)

	var out bytes.Buffer
	PrintTree(&out, b.Report())
	got := out.String()

	if strings.Index(got, "Browser") > strings.Index(got, "Temporary") {
		t.Error("categories should print in priority order")
	}
	if !strings.Contains(got, "... and 2 more files") {
		t.Errorf("long directories should be elided:\n%s", got)
	}
	if !strings.Contains(got, "data_0") {
		t.Error("file names should be listed")
	}
	if !strings.Contains(got, "Total: 8 items") {
		t.Errorf("missing total line:\n%s", got)
	}
}
