package tokencount

import "sync/atomic"

// Stats is a snapshot of how the memo cache served a Counter.
//
//	Hits    sub-problems answered from the cache
//	Misses  sub-problems the rule had to be evaluated for
//	Inserts results the cache accepted (equals Misses on a run without errors)
type Stats struct {
	Hits    uint64
	Misses  uint64
	Inserts uint64
}

// HitRatio returns Hits / (Hits + Misses), or 0 before any lookup.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

type statCounters struct {
	hits    atomic.Uint64
	misses  atomic.Uint64
	inserts atomic.Uint64
}

func (s *statCounters) snapshot() Stats {
	return Stats{
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
		Inserts: s.inserts.Load(),
	}
}
