// Package usage fetches remaining-usage windows from each tool and
// normalizes them into a common representation.
//
// The two tools report percentages with opposite conventions: Claude Code
// reports percent USED of a window (0 = fresh), Codex CLI's own surfaces
// show percent LEFT (100 = fresh). Every Window carries its convention so
// display code can never conflate the two.
package usage

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aipdev/aip/internal/tool"
)

// ErrTimeout is returned when a fetch exceeds its deadline.
var ErrTimeout = errors.New("usage fetch timed out")

// ErrUnavailable is returned when a tool has no usage data to report (not
// logged in, no sessions yet).
var ErrUnavailable = errors.New("usage unavailable")

// Convention says what a Window's Fraction measures.
type Convention int

const (
	// Used: Fraction is the share of the window consumed (0 = fresh).
	Used Convention = iota
	// Left: Fraction is the share of the window remaining (1 = fresh).
	Left
)

func (c Convention) String() string {
	if c == Left {
		return "left"
	}
	return "used"
}

// Window is one rate-limit accounting period, normalized.
type Window struct {
	Tool       tool.Tool
	Label      string
	Fraction   float64 // 0.0 - 1.0, per Convention
	Convention Convention
	ResetsAt   *time.Time
}

// UsedFraction returns the consumed share regardless of convention.
func (w Window) UsedFraction() float64 {
	if w.Convention == Left {
		return 1 - w.Fraction
	}
	return w.Fraction
}

// Fetcher fetches usage windows for one tool.
type Fetcher interface {
	Tool() tool.Tool
	Fetch(ctx context.Context) ([]Window, error)
}

// Result is one tool's fetch outcome within FetchAll.
type Result struct {
	Windows []Window
	Err     error
}

// FetchAll runs every fetcher concurrently and collects per-tool results.
// Failures are isolated: one tool's error or timeout never disturbs the
// other's result.
func FetchAll(ctx context.Context, fetchers ...Fetcher) map[tool.Tool]Result {
	results := make([]Result, len(fetchers))

	var g errgroup.Group
	for i, f := range fetchers {
		g.Go(func() error {
			windows, err := f.Fetch(ctx)
			results[i] = Result{Windows: windows, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[tool.Tool]Result, len(fetchers))
	for i, f := range fetchers {
		out[f.Tool()] = results[i]
	}
	return out
}
