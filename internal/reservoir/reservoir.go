// Package reservoir implements the Layer III bit reservoir (spec.md
// section 4.6): a signed bit counter that lets granules borrow
// unused capacity from previous granules, realized on the wire via the
// main_data_begin backward pointer.
package reservoir

// maxBits is the absolute ceiling on resv_size, fixed at 8*511 bits
// (511 bytes): spec.md section 4.1 requires "a single consistent
// ceiling <= 511*8 bits". See SPEC_FULL.md section 8 for how this
// constant was resolved from original_source/crate/src/reservoir.rs.
const maxBits = 8 * 511

// Reservoir is the per-encoder-instance bit reservoir state (owned
// exclusively by one Encoder, per SPEC_FULL.md section 3).
type Reservoir struct {
	size     int // resv_size: bits currently held
	max      int // resv_max: ceiling, <= maxBits
	meanBits int // mean_bits for one granule, summed across channels
	channels int
	drain    int // resv_drain: bits to emit as ancillary zeros
}

// New creates a Reservoir for an encoder whose granules have meanBits
// total bits to spend (summed across channels; §4.1's mean_bits) and
// the given channel count. resvMax is derived as
// min(maxBits, 8*meanBits/channels), keeping the ceiling internally
// consistent with MaxReservoirBits's 4095-bit clamp while never
// exceeding the absolute 511-byte ceiling.
func New(meanBits, channels int) *Reservoir {
	perChannel := meanBits / channels
	resvMax := 8 * perChannel
	if resvMax > maxBits {
		resvMax = maxBits
	}
	if resvMax < 0 {
		resvMax = 0
	}
	return &Reservoir{max: resvMax, meanBits: meanBits, channels: channels}
}

// Size returns resv_size, the bits currently held.
func (r *Reservoir) Size() int { return r.size }

// Max returns resv_max, the ceiling.
func (r *Reservoir) Max() int { return r.max }

// TakeDrain returns resv_drain, the bits to be emitted as ancillary zeros
// by the frame formatter, and clears it.
func (r *Reservoir) TakeDrain() int {
	d := r.drain
	r.drain = 0
	return d
}

// MaxReservoirBits implements max_reservoir_bits(pe) (spec.md
// section 4.6): the bit ceiling for the granule about to be quantized.
func (r *Reservoir) MaxReservoirBits(pe float64) int {
	mean := r.meanBits / r.channels
	maxB := mean
	if maxB > 4095 {
		maxB = 4095
	}
	if r.max == 0 {
		return maxB
	}

	add := 0.0
	more := 3.1*pe - float64(mean)
	if more > 100 {
		add = more
		if cap := 0.6 * float64(r.size); add > cap {
			add = cap
		}
	}
	over := float64(r.size) - 0.8*float64(r.max) - add
	if over > 0 {
		add += over
	}
	result := float64(maxB) + add
	if result > 4095 {
		result = 4095
	}
	if result < 0 {
		result = 0
	}
	return int(result)
}

// Adjust implements adjust(gr_info) (spec.md section 4.6): called after
// each granule is finalized.
func (r *Reservoir) Adjust(part23Length int) {
	r.size += r.meanBits/r.channels - part23Length
	if r.size < 0 {
		r.size = 0
	}
}

// Credit returns bits to the reservoir that Adjust already charged for
// a granule but that a later correction determined were not actually
// spent — e.g. SCFSI-omitted scalefactor bits, resolved only after both
// granules of a channel have been quantized.
func (r *Reservoir) Credit(bits int) {
	r.size += bits
}

// FrameEnd implements frame_end() (spec.md section 4.6): returns the
// stuffing bit count (the excess over resv_max plus the byte-alignment
// remainder). It does not change resv_drain; the caller hands the
// result to SetDrain.
func (r *Reservoir) FrameEnd() (stuffingBits int) {
	if r.channels == 2 && r.meanBits%2 == 1 {
		r.size++
	}

	over := r.size - r.max
	if over < 0 {
		over = 0
	}
	r.size -= over
	stuffing := over

	align := r.size % 8
	stuffing += align
	r.size -= align
	if r.size < 0 {
		r.size = 0
	}
	return stuffing
}

// SetDrain adds stuffing bits to resv_drain, which the formatter emits
// as ancillary zero bits. The pipeline routes all of FrameEnd's
// stuffing here; none is folded into any part2_3_length.
func (r *Reservoir) SetDrain(bits int) {
	r.drain += bits
}

// MainDataBegin returns main_data_begin in bytes for the frame about to
// be formatted: the reservoir size accumulated in previous frames,
// expressed in bytes (spec.md section 4.8/4.9).
func (r *Reservoir) MainDataBegin() int {
	return r.size / 8
}
