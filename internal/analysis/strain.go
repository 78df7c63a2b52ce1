package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/san-kum/tensegrity/internal/fabric"
)

// Histogram buckets the strain of one material's intervals.
type Histogram struct {
	Material string
	Min, Max float64
	Counts   []int
}

func (h *Histogram) Total() int {
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	return total
}

// StrainHistograms groups interval strain by material, sorted by material
// name. Each histogram spans its own strain range.
func StrainHistograms(f *fabric.Fabric, bins int) []*Histogram {
	if bins <= 0 {
		bins = 1
	}
	strains := make(map[string][]float64)
	f.EachInterval(func(_ fabric.IntervalID, in *fabric.Interval) {
		label := in.Material.String()
		strains[label] = append(strains[label], in.Strain)
	})

	labels := make([]string, 0, len(strains))
	for label := range strains {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	result := make([]*Histogram, 0, len(labels))
	for _, label := range labels {
		values := strains[label]
		h := &Histogram{Material: label, Min: math.Inf(1), Max: math.Inf(-1), Counts: make([]int, bins)}
		for _, v := range values {
			h.Min = math.Min(h.Min, v)
			h.Max = math.Max(h.Max, v)
		}
		width := h.Max - h.Min
		for _, v := range values {
			bin := 0
			if width > 0 {
				bin = int((v - h.Min) / width * float64(bins))
			}
			if bin >= bins {
				bin = bins - 1
			}
			h.Counts[bin]++
		}
		result = append(result, h)
	}
	return result
}

// String draws the histogram as horizontal bars no wider than 40 cells.
func (h *Histogram) String() string {
	peak := 0
	for _, c := range h.Counts {
		peak = max(peak, c)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%.5f, %.5f]\n", h.Material, h.Min, h.Max)
	width := (h.Max - h.Min) / float64(len(h.Counts))
	for i, c := range h.Counts {
		bar := 0
		if peak > 0 {
			bar = c * 40 / peak
		}
		fmt.Fprintf(&sb, "%+.5f %s %d\n", h.Min+float64(i)*width, strings.Repeat("█", bar), c)
	}
	return sb.String()
}
