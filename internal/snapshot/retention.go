package snapshot

// SelectEvictions returns the generations that fall outside the retention
// window: every element at index >= maxKeep of the newest-first list.
// It is a pure function; the caller performs the actual deletion.
func SelectEvictions(gens []Generation, maxKeep int) []Generation {
	if maxKeep < 0 {
		maxKeep = 0
	}
	if len(gens) <= maxKeep {
		return nil
	}
	return gens[maxKeep:]
}
