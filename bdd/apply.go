package bdd

// Op names a binary Boolean connective for Apply.
type Op uint8

const (
	OpAnd   = Op(opAnd)
	OpOr    = Op(opOr)
	OpXor   = Op(opXor)
	OpImp   = Op(opImp)
	OpBiimp = Op(opBiimp)
)

func eval(o op, x, y bool) bool {
	switch o {
	case opAnd:
		return x && y
	case opOr:
		return x || y
	case opXor:
		return x != y
	case opImp:
		return !x || y
	case opBiimp:
		return x == y
	}
	panic("bdd: unknown operator")
}

// Apply combines a and b with the connective o.
func (a *Arena) Apply(o Op, l, r Node) Node {
	return a.apply(op(o), l, r)
}

func (a *Arena) apply(o op, l, r Node) Node {
	if l <= True && r <= True {
		return From(eval(o, l == True, r == True))
	}
	switch o {
	case opAnd:
		switch {
		case l == False || r == False:
			return False
		case l == True:
			return r
		case r == True:
			return l
		case l == r:
			return l
		}
	case opOr:
		switch {
		case l == True || r == True:
			return True
		case l == False:
			return r
		case r == False:
			return l
		case l == r:
			return l
		}
	case opXor:
		if l == r {
			return False
		}
	case opBiimp:
		if l == r {
			return True
		}
	case opImp:
		if l == False || r == True {
			return True
		}
	}
	if (o == opAnd || o == opOr || o == opXor || o == opBiimp) && l > r {
		l, r = r, l
	}
	key := cacheKey{op: o, a: l, b: r}
	if n, ok := a.cache[key]; ok {
		return n
	}
	ll, rl := a.level(l), a.level(r)
	var res Node
	switch {
	case ll == rl:
		res = a.mk(ll, a.apply(o, a.Low(l), a.Low(r)), a.apply(o, a.High(l), a.High(r)))
	case ll < rl:
		res = a.mk(ll, a.apply(o, a.Low(l), r), a.apply(o, a.High(l), r))
	default:
		res = a.mk(rl, a.apply(o, l, a.Low(r)), a.apply(o, l, a.High(r)))
	}
	return a.remember(key, res)
}

// Not returns the negation of n.
func (a *Arena) Not(n Node) Node {
	if n <= True {
		return 1 - n
	}
	key := cacheKey{op: opNot, a: n}
	if res, ok := a.cache[key]; ok {
		return res
	}
	res := a.mk(a.level(n), a.Not(a.Low(n)), a.Not(a.High(n)))
	return a.remember(key, res)
}

// And returns the conjunction of ns, True when ns is empty.
func (a *Arena) And(ns ...Node) Node {
	res := True
	for _, n := range ns {
		res = a.apply(opAnd, res, n)
		if res == False {
			return False
		}
	}
	return res
}

// Or returns the disjunction of ns, False when ns is empty.
func (a *Arena) Or(ns ...Node) Node {
	res := False
	for _, n := range ns {
		res = a.apply(opOr, res, n)
		if res == True {
			return True
		}
	}
	return res
}

// Biimp returns l <-> r.
func (a *Arena) Biimp(l, r Node) Node {
	return a.apply(opBiimp, l, r)
}

// Ite returns (f & g) | (!f & h).
func (a *Arena) Ite(f, g, h Node) Node {
	return a.Or(a.And(f, g), a.And(a.Not(f), h))
}
