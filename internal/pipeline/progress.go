package pipeline

import (
	"fmt"
	"io"
	"sync"
	"time"

	"timeline-media/internal/logging"
)

// Progress counts the media items of one run and prints status lines of
// the form "[n/total ~ Xmin Ysec] status name".
type Progress struct {
	mu    sync.Mutex
	start time.Time
	total int
	done  int

	// out receives lines when set; otherwise they go to the logger.
	out     io.Writer
	inPlace bool
}

// NewProgress starts a counter for total items. With inPlace, each line
// overwrites the previous one, which only makes sense on a terminal.
func NewProgress(total int, out io.Writer, inPlace bool) *Progress {
	return &Progress{start: time.Now(), total: total, out: out, inPlace: inPlace}
}

// Status prints a line for the item about to complete.
func (p *Progress) Status(status, name string) {
	p.mu.Lock()
	line := fmt.Sprintf("[%d/%d ~ %s] %s %s", p.done+1, p.total, elapsed(time.Since(p.start)), status, name)
	p.mu.Unlock()

	switch {
	case p.out == nil:
		logging.Info("%s", line)
	case p.inPlace:
		fmt.Fprintf(p.out, "\r\033[K%s", line)
	default:
		fmt.Fprintln(p.out, line)
	}
}

// Done marks one item finished.
func (p *Progress) Done() {
	p.mu.Lock()
	p.done++
	p.mu.Unlock()
}

// Finish ends an in-place progress line.
func (p *Progress) Finish() {
	if p.out != nil && p.inPlace && p.total > 0 {
		fmt.Fprintln(p.out)
	}
}

// Counts returns completed and total items.
func (p *Progress) Counts() (done, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done, p.total
}

func elapsed(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%dmin %dsec", secs/60, secs%60)
}
