package display

import (
	"context"
	"io"
	"time"
)

// Typewriter reveals text one rune at a time.
type Typewriter struct {
	// Interval is the delay between runes. 0 writes everything at once.
	Interval time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewTypewriter creates a typewriter with the given interval.
func NewTypewriter(interval time.Duration) *Typewriter {
	return &Typewriter{
		Interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Type writes text to w. Reveal starts at since: runes that would already
// have appeared by now are written immediately, so older events are not
// replayed. A zero since animates the whole text. Cancelling ctx writes the
// remainder at once.
func (t *Typewriter) Type(ctx context.Context, w io.Writer, since time.Time, text string) error {
	runes := []rune(text)
	if t.Interval <= 0 || len(runes) == 0 {
		_, err := io.WriteString(w, text)
		return err
	}

	revealed := 0
	if !since.IsZero() {
		if elapsed := t.now().Sub(since); elapsed > 0 {
			revealed = int(min(elapsed/t.Interval, time.Duration(len(runes))))
		}
	}
	if revealed > 0 {
		if _, err := io.WriteString(w, string(runes[:revealed])); err != nil {
			return err
		}
	}

	for i := revealed; i < len(runes); i++ {
		if err := t.sleep(ctx, t.Interval); err != nil {
			_, werr := io.WriteString(w, string(runes[i:]))
			return werr
		}
		if _, err := io.WriteString(w, string(runes[i])); err != nil {
			return err
		}
	}
	return nil
}
