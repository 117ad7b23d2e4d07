package util

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestPercentは100を上限とする(t *testing.T) {
	if got := percent(5, 4); got != 100 {
		t.Fatalf("5/4 は 100%% として扱うべきです: got=%d", got)
	}
	if got := percent(1, 4); got != 25 {
		t.Fatalf("1/4 は 25%% です: got=%d", got)
	}
}

func TestProgressは件数とETAを描画する(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, "mask", 4, true)
	base := time.Unix(1700000000, 0)
	p.start = base
	p.now = func() time.Time { return base.Add(2 * time.Second) }

	p.Step()
	p.Step()
	out := buf.String()
	if !strings.Contains(out, "[mask] 2/4 (50%) ETA 00:00:02") {
		t.Fatalf("進捗行が期待と異なります: %q", out)
	}
	p.Done()
	if !strings.HasSuffix(buf.String(), "\r\033[K") {
		t.Fatalf("Done は行を消去するべきです: %q", buf.String())
	}
}

func TestProgressは無効なら何も書かない(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, "mask", 3, false)
	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Step()
		}()
	}
	wg.Wait()
	p.Done()
	if buf.Len() != 0 {
		t.Fatalf("無効な進捗は出力しません: %q", buf.String())
	}
	if p.done != 3 {
		t.Fatalf("done = %d, want 3", p.done)
	}
}

func TestShouldShowProgress(t *testing.T) {
	var buf bytes.Buffer
	if ShouldShowProgress(true, true, &buf) {
		t.Fatal("--no-progress が優先されるべきです")
	}
	if !ShouldShowProgress(true, false, &buf) {
		t.Fatal("--progress で強制表示されるべきです")
	}
	if ShouldShowProgress(false, false, &buf) {
		t.Fatal("端末でない出力先には表示しません")
	}
}
