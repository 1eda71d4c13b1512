package searchclient

// StateSet is a hash set of states keyed by State.Hash and State.Equal.
type StateSet struct {
	buckets map[uint64][]*State
	size    int
}

func NewStateSet() *StateSet {
	return &StateSet{buckets: make(map[uint64][]*State)}
}

// Add inserts s and reports whether it was not already present.
func (set *StateSet) Add(s *State) bool {
	h := s.Hash()
	bucket := set.buckets[h]
	for _, existing := range bucket {
		if existing.Equal(s) {
			return false
		}
	}
	set.buckets[h] = append(bucket, s)
	set.size++
	return true
}

func (set *StateSet) Contains(s *State) bool {
	for _, existing := range set.buckets[s.Hash()] {
		if existing.Equal(s) {
			return true
		}
	}
	return false
}

// Remove deletes the state equal to s and reports whether one was present.
func (set *StateSet) Remove(s *State) bool {
	h := s.Hash()
	bucket := set.buckets[h]
	for i, existing := range bucket {
		if !existing.Equal(s) {
			continue
		}
		if len(bucket) == 1 {
			delete(set.buckets, h)
		} else {
			bucket[i] = bucket[len(bucket)-1]
			bucket[len(bucket)-1] = nil
			set.buckets[h] = bucket[:len(bucket)-1]
		}
		set.size--
		return true
	}
	return false
}

func (set *StateSet) Len() int { return set.size }
