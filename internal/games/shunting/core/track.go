package core

// Track is an ordered sequence of slots. After every engine mutation a
// track is left-packed and exactly capacity slots long.
type Track []string

// Cars returns the non-empty labels in slot order.
func (t Track) Cars() []string {
	cars := make([]string, 0, len(t))
	for _, label := range t {
		if label != Empty {
			cars = append(cars, label)
		}
	}
	return cars
}

// Count returns the number of non-empty slots.
func (t Track) Count() int {
	n := 0
	for _, label := range t {
		if label != Empty {
			n++
		}
	}
	return n
}

// RunLength returns the length of the contiguous non-empty run starting at slot 0.
func (t Track) RunLength() int {
	for i, label := range t {
		if label == Empty {
			return i
		}
	}
	return len(t)
}

// LeftPacked reports whether no empty slot precedes a non-empty one.
func (t Track) LeftPacked() bool {
	return t.RunLength() == t.Count()
}

// packTrack returns a fresh track holding cars followed by empty slots up to
// capacity. Cars beyond capacity are kept, so the caller must check capacity.
func packTrack(cars []string, capacity int) Track {
	size := max(capacity, len(cars))
	out := make(Track, size)
	copy(out, cars)
	return out
}

// cloneTracks deep-copies and normalizes level tracks.
func cloneTracks(tracks [][]string, capacity int) []Track {
	out := make([]Track, len(tracks))
	for i, t := range tracks {
		out[i] = packTrack(Track(t).Cars(), capacity)
	}
	return out
}
