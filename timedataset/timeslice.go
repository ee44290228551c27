package timedataset

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rickar/cal/v2"
)

var (
	ErrNonPositiveFreq  = errors.New("frequency must be positive")
	ErrTimeBeforeStart  = errors.New("time is before the start of the series")
	ErrTimeNotAligned   = errors.New("time does not fall on the series frequency")
	ErrEmptyTimeSlice   = errors.New("empty time slice")
	ErrNoWorkdaysInScan = errors.New("no business day found while generating horizon")
)

// maxCalendarSkip bounds how many consecutive non-working steps are skipped before giving up
const maxCalendarSkip = 1000

type TimeSlice []time.Time

// firstNotAfter returns the first index whose time does not come after the previous one or
// -1 when the slice is strictly increasing
func (t TimeSlice) firstNotAfter() int {
	for i := 1; i < len(t); i++ {
		if !t[i].After(t[i-1]) {
			return i
		}
	}
	return -1
}

func (t TimeSlice) StartTime() time.Time {
	var startTime time.Time
	if len(t) < 1 {
		return startTime
	}
	return t[0]
}

func (t TimeSlice) EndTime() time.Time {
	var lastTime time.Time
	if len(t) < 1 {
		return lastTime
	}

	lastTime = t[len(t)-1]
	return lastTime
}

// EstimateFreq returns the most common spacing between consecutive points. Ties go to the
// smallest spacing.
func (t TimeSlice) EstimateFreq() (time.Duration, error) {
	if len(t) < 2 {
		return 0, ErrCannotInferFreq
	}

	frequencies := make(map[time.Duration]int)
	for i := 1; i < len(t); i++ {
		delta := t[i].Sub(t[i-1])
		frequencies[delta] += 1
	}

	var maxCnt int
	var maxDelta time.Duration
	for delta, cnt := range frequencies {
		if cnt > maxCnt || (cnt == maxCnt && delta < maxDelta) {
			maxCnt = cnt
			maxDelta = delta
		}
	}
	if maxDelta <= 0 {
		return 0, ErrCannotInferFreq
	}
	return maxDelta, nil
}

// Horizon generates n time points after the end of the slice spaced by freq. With a
// business calendar, points that do not fall on a workday are skipped.
func (t TimeSlice) Horizon(n int, freq time.Duration, bc *cal.BusinessCalendar) ([]time.Time, error) {
	if len(t) == 0 {
		return nil, ErrEmptyTimeSlice
	}
	if freq <= 0 {
		return nil, ErrNonPositiveFreq
	}
	if n <= 0 {
		return []time.Time{}, nil
	}

	out := make([]time.Time, 0, n)
	curr := t.EndTime()
	for len(out) < n {
		next, err := nextPoint(curr, freq, bc)
		if err != nil {
			return nil, err
		}
		out = append(out, next)
		curr = next
	}
	return out, nil
}

func nextPoint(curr time.Time, freq time.Duration, bc *cal.BusinessCalendar) (time.Time, error) {
	next := curr.Add(freq)
	if bc == nil {
		return next, nil
	}
	for skipped := 0; !bc.IsWorkday(next); skipped++ {
		if skipped >= maxCalendarSkip {
			return time.Time{}, fmt.Errorf("after %s, %w", curr, ErrNoWorkdaysInScan)
		}
		next = next.Add(freq)
	}
	return next, nil
}

// Index resolves a time to its zero based position. Times within the slice must match a
// point exactly, later times are resolved by stepping the horizon forward from the end.
func (t TimeSlice) Index(target time.Time, freq time.Duration, bc *cal.BusinessCalendar) (int, error) {
	if len(t) == 0 {
		return 0, ErrEmptyTimeSlice
	}
	if target.Before(t.StartTime()) {
		return 0, fmt.Errorf("%s, %w", target, ErrTimeBeforeStart)
	}
	if !target.After(t.EndTime()) {
		idx := sort.Search(len(t), func(i int) bool {
			return !t[i].Before(target)
		})
		if idx < len(t) && t[idx].Equal(target) {
			return idx, nil
		}
		return 0, fmt.Errorf("%s, %w", target, ErrTimeNotAligned)
	}

	if freq <= 0 {
		return 0, ErrNonPositiveFreq
	}
	idx := len(t) - 1
	curr := t.EndTime()
	for curr.Before(target) {
		next, err := nextPoint(curr, freq, bc)
		if err != nil {
			return 0, err
		}
		curr = next
		idx++
	}
	if !curr.Equal(target) {
		return 0, fmt.Errorf("%s, %w", target, ErrTimeNotAligned)
	}
	return idx, nil
}
