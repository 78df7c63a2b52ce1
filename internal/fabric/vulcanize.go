package fabric

import "sort"

// BowTieContraction is the fraction of its current length a bow tie shrinks
// to once installed.
const BowTieContraction = 0.5

type jointContext struct {
	push  IntervalID
	pulls []IntervalID
}

// cablePath follows pull cables away from a strut end. joints holds the
// start and every joint passed through, not the end.
type cablePath struct {
	joints    []JointID
	intervals []IntervalID
	end       JointID
}

func (p cablePath) start() JointID       { return p.joints[0] }
func (p cablePath) penultimate() JointID { return p.joints[len(p.joints)-1] }
func (p cablePath) last() IntervalID     { return p.intervals[len(p.intervals)-1] }

type meeting struct {
	alpha, omega cablePath
	apex         JointID
}

type bowTieFinder struct {
	f        *Fabric
	contexts map[JointID]*jointContext
	existing map[JointPair]bool
	found    map[JointPair]bool
	order    []JointPair
}

func newBowTieFinder(f *Fabric) *bowTieFinder {
	b := &bowTieFinder{
		f:        f,
		contexts: make(map[JointID]*jointContext),
		existing: make(map[JointPair]bool),
		found:    make(map[JointPair]bool),
	}
	for _, id := range f.JointIDs() {
		b.contexts[id] = &jointContext{}
	}
	f.EachInterval(func(id IntervalID, in *Interval) {
		b.existing[in.Key()] = true
		for _, end := range [2]JointID{in.Alpha, in.Omega} {
			ctx, ok := b.contexts[end]
			if !ok {
				continue
			}
			spec := in.Material.Spec()
			switch {
			case in.Role == Push:
				ctx.push = id
			case in.Role == Pull && !spec.Support && in.Material != FaceRadialMaterial:
				ctx.pulls = append(ctx.pulls, id)
			}
		}
	})
	return b
}

func (b *bowTieFinder) interval(id IntervalID) *Interval {
	return b.f.intervals.get(ID(id))
}

func (b *bowTieFinder) hasStrut(j JointID) bool {
	ctx, ok := b.contexts[j]
	return ok && !ctx.push.IsZero()
}

func (b *bowTieFinder) strutPartner(j JointID) (JointID, bool) {
	ctx, ok := b.contexts[j]
	if !ok || ctx.push.IsZero() {
		return JointID{}, false
	}
	return b.interval(ctx.push).OtherJoint(j), true
}

func (b *bowTieFinder) paths(from JointID, hops int) []cablePath {
	var paths []cablePath
	for _, pull := range b.contexts[from].pulls {
		paths = append(paths, cablePath{
			joints:    []JointID{from},
			intervals: []IntervalID{pull},
			end:       b.interval(pull).OtherJoint(from),
		})
	}
	for hop := 1; hop < hops; hop++ {
		var extended []cablePath
		for _, p := range paths {
			ctx, ok := b.contexts[p.end]
			if !ok {
				continue
			}
			for _, pull := range ctx.pulls {
				if pull == p.last() || containsJoint(p.joints, p.end) {
					continue
				}
				next := b.interval(pull).OtherJoint(p.end)
				extended = append(extended, cablePath{
					joints:    append(append([]JointID(nil), p.joints...), p.end),
					intervals: append(append([]IntervalID(nil), p.intervals...), pull),
					end:       next,
				})
			}
		}
		paths = extended
	}
	return paths
}

func containsJoint(joints []JointID, j JointID) bool {
	for _, k := range joints {
		if k == j {
			return true
		}
	}
	return false
}

func (b *bowTieFinder) meetings(strut *Interval) (bridges, apexes []meeting) {
	alphaPaths := b.paths(strut.Alpha, 2)
	omegaPaths := b.paths(strut.Omega, 2)
	for _, a := range alphaPaths {
		for _, o := range omegaPaths {
			switch {
			case a.last() == o.last():
				bridges = append(bridges, meeting{alpha: a, omega: o})
			case a.end == o.end:
				apexes = append(apexes, meeting{alpha: a, omega: o, apex: a.end})
			}
		}
	}
	return bridges, apexes
}

func (b *bowTieFinder) add(alpha, omega JointID) {
	key := PairOf(alpha, omega)
	if alpha == omega || b.existing[key] || b.found[key] {
		return
	}
	b.found[key] = true
	b.order = append(b.order, key)
}

func (b *bowTieFinder) bridgePair(m1, m2 meeting) {
	corners := [2][2]JointID{
		{m1.alpha.end, m2.omega.end},
		{m2.alpha.end, m1.omega.end},
	}
	var valid [][2]JointID
	for _, c := range corners {
		ap, okA := b.strutPartner(c[0])
		bp, okB := b.strutPartner(c[1])
		if okA && okB && !b.existing[PairOf(ap, bp)] {
			valid = append(valid, c)
		}
	}
	if len(valid) == 1 {
		b.add(valid[0][0], valid[0][1])
		return
	}
	candidates := [4][2]cablePath{
		{m1.alpha, m2.alpha},
		{m2.alpha, m1.alpha},
		{m1.omega, m2.omega},
		{m2.omega, m1.omega},
	}
	for _, c := range candidates {
		path, other := c[0], c[1]
		if !b.hasStrut(other.penultimate()) {
			b.add(path.start(), path.end)
			return
		}
	}
}

func (b *bowTieFinder) apexPair(m1, m2 meeting) {
	candidates := []struct {
		path cablePath
		apex JointID
	}{
		{m1.alpha, m2.apex},
		{m2.alpha, m1.apex},
		{m1.omega, m2.apex},
		{m2.omega, m1.apex},
	}
	for _, c := range candidates {
		through := c.path.penultimate()
		if b.hasStrut(through) {
			b.add(through, c.apex)
		}
	}
}

func (b *bowTieFinder) find() []JointPair {
	var struts []*Interval
	b.f.EachInterval(func(_ IntervalID, in *Interval) {
		if in.Role == Push {
			struts = append(struts, in)
		}
	})
	for _, strut := range struts {
		bridges, apexes := b.meetings(strut)
		switch {
		case len(bridges) >= 2:
			b.bridgePair(bridges[0], bridges[1])
		case len(apexes) >= 2:
			b.apexPair(apexes[0], apexes[1])
		}
	}
	return b.order
}

// BowTiePairs finds the joint pairs that bow ties would connect. It is a
// pure topology search over pull cables, excluding face radials and support
// lines. Results are deduplicated, skip existing intervals and come out in
// strut order.
func (f *Fabric) BowTiePairs() []JointPair {
	return newBowTieFinder(f).find()
}

// InstallBowTies adds a shortening pull for every bow tie pair and returns
// the created intervals.
func (f *Fabric) InstallBowTies() []IntervalID {
	pairs := f.BowTiePairs()
	created := make([]IntervalID, 0, len(pairs))
	for _, pair := range pairs {
		current := f.Distance(pair.A, pair.B)
		created = append(created, f.CreateIntervalWithSpan(pair.A, pair.B,
			Approaching{Initial: current, Target: current * BowTieContraction}, BowTieMaterial))
	}
	return created
}

// SortPairs orders joint pairs by handle.
func SortPairs(pairs []JointPair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A.Less(pairs[j].A)
		}
		return pairs[i].B.Less(pairs[j].B)
	})
}
