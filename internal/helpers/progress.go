package helpers

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

type ProgressBar struct {
	Set   func(int)
	Add   func(int)
	Close func()
}

func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if !IsNil(err) {
		return 80
	}
	return Clamp(width, 80, 120)
}

func unitForDuration(d time.Duration) time.Duration {
	if d < time.Microsecond {
		return time.Nanosecond
	}
	if d < time.Millisecond {
		return time.Microsecond
	}
	if d < time.Second {
		return time.Millisecond
	}
	if d < time.Minute {
		return time.Second
	}
	return time.Minute
}

// CreateProgressBar prints node-count progress lines with an exponential
// back-off between redraws.
func CreateProgressBar(total int, label string) ProgressBar {
	return CreateProgressBarTo(os.Stdout, total, label)
}

func CreateProgressBarTo(w io.Writer, total int, label string) ProgressBar {
	value := 0
	lock := sync.Mutex{}

	startTime := time.Now()
	updateDuration := time.Millisecond * 200

	var update = func(forceUpdate bool) {
		if time.Since(startTime) <= updateDuration && !forceUpdate {
			return
		}
		updateDuration *= 2

		elapsed := time.Since(startTime)
		value = Min(value, total)
		if value == 0 || total == 0 {
			return
		}
		perSecond := int64(float64(value) / elapsed.Seconds())

		percent := float64(value) / float64(total)
		expectedFinish := time.Duration(float64(elapsed) / percent)
		unit := unitForDuration(elapsed)

		prefix := fmt.Sprintf("%s %3d%% ", label, int(percent*100))
		suffix := fmt.Sprintf(" %v => %v @ %v nodes/s", elapsed.Round(unit), expectedFinish.Round(unit), humanize.Comma(perSecond))

		totalProgressLen := Max(termWidth()-utf8.RuneCountInString(prefix)-utf8.RuneCountInString(suffix), 0)
		currentProgressLen := Clamp(int(float64(totalProgressLen)*percent), 0, totalProgressLen)

		fmt.Fprintf(w, "%s%s%s%s\n", prefix,
			strings.Repeat("=", currentProgressLen),
			strings.Repeat(" ", totalProgressLen-currentProgressLen),
			suffix)
	}

	return ProgressBar{
		func(i int) {
			lock.Lock()
			defer lock.Unlock()
			value = i
			update(false)
		},
		func(i int) {
			lock.Lock()
			defer lock.Unlock()
			value += i
			update(false)
		},
		func() {
			lock.Lock()
			defer lock.Unlock()
			update(true)
		},
	}
}
