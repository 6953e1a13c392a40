package sampler

import "iter"

// OneCoreRow is a single (trial, value) sample.
type OneCoreRow struct {
	Trial int
	Value int
}

// ManyCoreRow is a sample for one ordered (source, dest) core pair.
type ManyCoreRow struct {
	Trial  int
	Source int
	Dest   int
	Value  int
}

// OneCore yields one sample per trial. A sampling error is yielded once and
// ends the sequence.
func (s *Sampler) OneCore(trials, scaleFactor int) iter.Seq2[OneCoreRow, error] {
	mean, stddev := Params(scaleFactor)
	return func(yield func(OneCoreRow, error) bool) {
		for trial := 0; trial < trials; trial++ {
			v, err := s.NonNegativeInt(mean, stddev)
			if err != nil {
				yield(OneCoreRow{Trial: trial}, err)
				return
			}
			if !yield(OneCoreRow{Trial: trial, Value: v}, nil) {
				return
			}
		}
	}
}

// ManyCore yields one sample per trial and ordered core pair, skipping the
// diagonal. Rows come trial-major, then by source, then by dest.
func (s *Sampler) ManyCore(trials, cores, scaleFactor int) iter.Seq2[ManyCoreRow, error] {
	mean, stddev := Params(scaleFactor)
	return func(yield func(ManyCoreRow, error) bool) {
		for trial := 0; trial < trials; trial++ {
			for src := 0; src < cores; src++ {
				for dst := 0; dst < cores; dst++ {
					if src == dst {
						continue
					}
					row := ManyCoreRow{Trial: trial, Source: src, Dest: dst}
					v, err := s.NonNegativeInt(mean, stddev)
					if err != nil {
						yield(row, err)
						return
					}
					row.Value = v
					if !yield(row, nil) {
						return
					}
				}
			}
		}
	}
}

// ManyCoreRowsPerTrial is the number of off-diagonal core pairs.
func ManyCoreRowsPerTrial(cores int) int {
	if cores < 1 {
		return 0
	}
	return cores*cores - cores
}
