package fabric

// Progress counts down a number of ticks. Waiting is expressed as a running
// Progress that the driving loop polls, never as blocking.
type Progress struct {
	limit int
	count int
}

func (p *Progress) Start(countdown int) {
	if countdown < 0 {
		countdown = 0
	}
	p.count = 0
	p.limit = countdown
}

// Step advances one tick and reports whether this was the final one.
func (p *Progress) Step() bool {
	next := p.count + 1
	if next > p.limit {
		return false
	}
	p.count = next
	return p.count == p.limit
}

func (p *Progress) IsBusy() bool { return p.count < p.limit }

func (p *Progress) Nuance() float64 {
	if p.limit == 0 {
		return 1
	}
	return float64(p.count) / float64(p.limit)
}

func (p *Progress) Remaining() int { return p.limit - p.count }
