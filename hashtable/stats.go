package hashtable

// TableStats is a point-in-time snapshot of table geometry and probe
// behavior, for instrumentation and the bufctl tool.
type TableStats struct {
	Count           uint64
	Capacity        uint64
	MaxMissDistance uint64
	BufferBytes     uint64

	// LoadFactor is Count / Capacity.
	LoadFactor float64

	// ProbeHistogram[d-1] counts live entries stored at probe distance d.
	ProbeHistogram []uint64

	// MaxProbe is the largest probe distance currently in use.
	MaxProbe uint64
}

// Stats scans the cell array and returns a snapshot.
func (t *Table[K, V]) Stats() TableStats {
	h, cells := t.state()
	st := TableStats{
		Count:           h.count,
		Capacity:        h.capacity,
		MaxMissDistance: h.maxMiss,
		BufferBytes:     t.buf.Size(),
		ProbeHistogram:  make([]uint64, h.maxMiss),
	}
	if h.capacity > 0 {
		st.LoadFactor = float64(h.count) / float64(h.capacity)
	}
	for i := range cells {
		d := uint64(cells[i].Distance)
		if d == 0 {
			continue
		}
		st.ProbeHistogram[d-1]++
		if d > st.MaxProbe {
			st.MaxProbe = d
		}
	}
	return st
}
