package tempo

import (
	"math"
	"sort"
)

// Converter maps tick positions to milliseconds through a piecewise tempo
// map. It holds no mutable state.
type Converter struct {
	Map          Map
	TicksPerBeat int
}

func NewConverter(m Map, ticksPerBeat int) Converter {
	if ticksPerBeat <= 0 {
		ticksPerBeat = FallbackTicksPerBeat
	}
	if len(m) == 0 {
		m = NewMap()
	}
	return Converter{Map: m, TicksPerBeat: ticksPerBeat}
}

// span integrates tempo over [from, to) and returns the sum of
// ticks*microsecondsPerBeat for every segment. Dividing by
// 1000*TicksPerBeat gives milliseconds. Keeping the sum integral makes
// the result exact and monotonic in to; it saturates rather than wraps.
func (c Converter) span(from, to int64) int64 {
	if to <= from {
		return 0
	}

	var total int64
	cursor := from

	// first entry strictly after from
	i := sort.Search(len(c.Map), func(i int) bool { return c.Map[i].Tick > from })
	for ; i < len(c.Map) && c.Map[i].Tick <= to; i++ {
		boundary := c.Map[i].Tick
		total = accumulate(total, boundary-cursor, c.Map.At(cursor))
		cursor = boundary
	}

	if cursor < to {
		total = accumulate(total, to-cursor, c.Map.At(cursor))
	}
	return total
}

// accumulate adds ticks*us to total, saturating at math.MaxInt64 so that
// span stays monotonic for absurdly long files.
func accumulate(total, ticks, us int64) int64 {
	if ticks <= 0 || us <= 0 {
		return total
	}
	if ticks > (math.MaxInt64-total)/us {
		return math.MaxInt64
	}
	return total + ticks*us
}

// Millis returns the duration in milliseconds between two tick positions.
// It is 0 when to <= from.
func (c Converter) Millis(from, to int64) float64 {
	return float64(c.span(from, to)) / (1000 * float64(c.TicksPerBeat))
}

// TimestampMs returns the absolute time of tick in whole milliseconds,
// rounded down.
func (c Converter) TimestampMs(tick int64) int64 {
	return c.span(0, tick) / (1000 * int64(c.TicksPerBeat))
}
