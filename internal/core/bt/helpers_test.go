package bt

// scripted replays statuses in order and repeats the last one. It counts
// calls and keeps its position across resets.
type scripted struct {
	script []Status
	calls  int
}

func (s *scripted) Tick(any) Status {
	i := s.calls
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	s.calls++
	return s.script[i]
}

func script(name string, statuses ...Status) (*Leaf, *scripted) {
	b := &scripted{script: statuses}
	return NewLeaf(name, b), b
}

func always(name string, st Status) (*Leaf, *scripted) { return script(name, st) }
