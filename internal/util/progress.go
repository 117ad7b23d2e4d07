package util

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && f != nil && term.IsTerminal(int(f.Fd()))
}

// ShouldShowProgress decides whether a progress line is drawn on w.
func ShouldShowProgress(force, no bool, w io.Writer) bool {
	if no {
		return false
	}
	if force {
		return true
	}
	return isTTY(w)
}

// Progress draws a single updating "label done/total" line. Step may be
// called from several goroutines.
type Progress struct {
	mu      sync.Mutex
	w       io.Writer
	label   string
	total   int
	done    int
	start   time.Time
	now     func() time.Time
	enabled bool
}

func NewProgress(w io.Writer, label string, total int, enabled bool) *Progress {
	return &Progress{w: w, label: label, total: total, start: time.Now(), now: time.Now, enabled: enabled}
}

// Step records one finished item and redraws the line.
func (p *Progress) Step() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++
	if !p.enabled {
		return
	}
	elapsed := p.now().Sub(p.start)
	eta := "-"
	if p.done > 0 {
		remain := time.Duration(float64(elapsed) * float64(p.total-p.done) / float64(p.done))
		if remain < 0 {
			remain = 0
		}
		eta = fmt.Sprintf("%02d:%02d:%02d", int(remain.Hours()), int(remain.Minutes())%60, int(remain.Seconds())%60)
	}
	// clear line and print
	fmt.Fprintf(p.w, "\r\033[K[%s] %d/%d (%d%%) ETA %s", p.label, p.done, p.total, percent(p.done, p.total), eta)
}

func (p *Progress) Done() {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.w, "\r\033[K")
}

func percent(a, b int) int {
	if b == 0 || a >= b {
		return 100
	}
	return int(float64(a) * 100 / float64(b))
}
