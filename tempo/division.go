package tempo

// FallbackTicksPerBeat is used when the header division is missing or
// resolves to something unusable.
const FallbackTicksPerBeat = 480

// Division is a resolved header timing division
type Division struct {
	TicksPerBeat int
	FrameBased   bool // SMPTE encoded; informational only
	Fallback     bool // TicksPerBeat is FallbackTicksPerBeat because the raw value was unusable
}

// ResolveDivision turns the raw signed division word into ticks per quarter
// note. SMPTE values are approximated as frameRate*ticksPerFrame*4.
func ResolveDivision(raw int, present bool) Division {
	var d Division

	switch {
	case present && raw > 0:
		d.TicksPerBeat = raw
	case present && raw < 0:
		frameRate := -(raw >> 8)
		ticksPerFrame := raw & 0xFF
		d.TicksPerBeat = frameRate * ticksPerFrame * 4
		d.FrameBased = true
	}

	if d.TicksPerBeat <= 0 {
		d.TicksPerBeat = FallbackTicksPerBeat
		d.Fallback = true
	}
	return d
}
