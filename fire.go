package safenet

// Inputs returns the input place indices of transition t.
func (n *Net) Inputs(t int) []int {
	return n.inputs[t]
}

// Outputs returns the output place indices of transition t.
func (n *Net) Outputs(t int) []int {
	return n.outputs[t]
}

// Enabled returns true if every input place of t holds a token. A transition
// without input places is always enabled.
func (n *Net) Enabled(t int, m Marking) bool {
	for _, p := range n.inputs[t] {
		if m[p] == 0 {
			return false
		}
	}
	return true
}

// Fire returns the marking reached by firing t from m. The caller must ensure
// t is enabled. Inputs are cleared before outputs are set, so a place that is
// both input and output of t stays marked.
func (n *Net) Fire(t int, m Marking) Marking {
	next := m.Clone()
	for _, p := range n.inputs[t] {
		next[p] = 0
	}
	for _, p := range n.outputs[t] {
		next[p] = 1
	}
	return next
}

// EnabledTransitions returns the transitions enabled at m in index order.
func (n *Net) EnabledTransitions(m Marking) []int {
	var ret []int
	for t := range n.TransIDs {
		if n.Enabled(t, m) {
			ret = append(ret, t)
		}
	}
	return ret
}

// IsDead reports whether no transition is enabled at m.
func (n *Net) IsDead(m Marking) bool {
	for t := range n.TransIDs {
		if n.Enabled(t, m) {
			return false
		}
	}
	return true
}

// SourceTransitions returns the transitions that have no input place.
func (n *Net) SourceTransitions() []int {
	var ret []int
	for t := range n.TransIDs {
		if len(n.inputs[t]) == 0 {
			ret = append(ret, t)
		}
	}
	return ret
}
