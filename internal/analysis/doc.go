// Package analysis digs into finished runs and fabrics.
//
// The package includes tools for characterizing a tensegrity after the fact:
//
//   - [Spectrum] and [DominantFrequency]: oscillation in a sampled history
//   - [StrainHistograms]: strain distribution per material
//   - [SettleFrame]: the frame after which a run stayed at rest
//   - [NewPhasePortrait]: one history quantity against another
//   - [PretenseSweep]: how a plan responds to different pretense factors
//
// # Muscle Cycles
//
// A flexing fabric oscillates at the rate its muscles cycle, which shows up
// as a peak in the speed history:
//
//	freq, err := analysis.DominantFrequency(speeds, framesPerSecond)
//	if err == nil && freq > 0 {
//	    // the fabric is pulsing
//	}
package analysis
