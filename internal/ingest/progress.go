package ingest

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Progress receives one tick per normalized record.
type Progress interface {
	// Add increments the progress by n records
	Add(n int) error
	// Close erases the display once normalization is done
	Close()
}

// NoopProgress discards all ticks.
type NoopProgress struct{}

func (p *NoopProgress) Add(int) error { return nil }
func (p *NoopProgress) Close()        {}

// NewNoopProgress creates a progress tracker that displays nothing
func NewNoopProgress() *NoopProgress {
	return &NoopProgress{}
}

// BarProgress renders normalization progress on stderr. Record counts
// are rarely known before parsing finishes, so an unknown total renders
// as a spinner with a running count rather than a bar.
type BarProgress struct {
	bar *progressbar.ProgressBar
}

func (p *BarProgress) Add(n int) error {
	return p.bar.Add(n)
}

func (p *BarProgress) Close() {
	_ = p.bar.Clear()
}

// NewBarProgress creates a progress display for total records; pass -1
// when the total is unknown.
func NewBarProgress(total int) *BarProgress {
	return newBarProgress(total, os.Stderr)
}

func newBarProgress(total int, w io.Writer) *BarProgress {
	options := []progressbar.Option{
		progressbar.OptionSetDescription("Normalizing transactions"),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
	}
	if total < 0 {
		options = append(options, progressbar.OptionSpinnerType(14))
	} else {
		options = append(options,
			progressbar.OptionShowIts(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}
	return &BarProgress{bar: progressbar.NewOptions(total, options...)}
}
