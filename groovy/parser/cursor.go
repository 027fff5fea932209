package parser

// checkpoint captures everything a speculative parse may change.
type checkpoint struct {
	pos         int
	switchDepth int
	diags       int
	hard        int
	panicking   bool
}

func (p *Parser) mark() checkpoint {
	return checkpoint{
		pos:         p.pos,
		switchDepth: p.switchDepth,
		diags:       len(p.diags),
		hard:        p.hard,
		panicking:   p.panicking,
	}
}

// rewind restores the state captured by mark and discards diagnostics
// recorded since.
func (p *Parser) rewind(cp checkpoint) {
	p.pos = cp.pos
	p.switchDepth = cp.switchDepth
	p.diags = p.diags[:cp.diags]
	p.hard = cp.hard
	p.panicking = cp.panicking
}

// speculate runs fn as a trial parse. The trial succeeds when fn returns
// true without reporting a syntax error; otherwise the parser is rewound
// as if fn had never run.
func (p *Parser) speculate(fn func() bool) bool {
	cp := p.mark()
	if fn() && p.hard == cp.hard {
		return true
	}
	p.rewind(cp)
	return false
}

// lookahead runs fn and always rewinds, so fn may consume freely.
func (p *Parser) lookahead(fn func() bool) bool {
	cp := p.mark()
	defer p.rewind(cp)
	return fn()
}

// enterSwitchExpr raises the switch-expression depth that gates yield.
// The returned function restores it.
func (p *Parser) enterSwitchExpr() func() {
	p.switchDepth++
	return func() {
		p.switchDepth--
	}
}

func (p *Parser) inSwitchExpr() bool {
	return p.switchDepth > 0
}
