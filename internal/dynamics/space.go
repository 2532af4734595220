package dynamics

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// NearCallback is invoked once per potentially colliding geom pair.
type NearCallback func(g1, g2 *Geom)

// PairFinder finds every overlapping pair among bounds, reporting index
// pairs into the slice. It is used instead of the spatial hash once a space
// holds at least the configured number of geoms.
type PairFinder interface {
	FindPairs(bounds []AABB) ([][2]int, error)
}

// DefaultCellSize is the edge length of a spatial hash cell.
const DefaultCellSize = 4.0

// geoms covering more cells than this are tested against everything instead
// of being hashed
const maxCellsPerGeom = 64

type cellKey struct {
	X, Y, Z int
}

// Space is a hashed collision space. Geoms are kept in insertion order and
// pairs are reported in a deterministic order.
type Space struct {
	geoms    []*Geom
	cellSize float64

	finder          PairFinder
	finderThreshold int
	usingFinder     bool
	finderErr       error
}

func NewSpace() *Space {
	return &Space{
		geoms:    make([]*Geom, 0),
		cellSize: DefaultCellSize,
	}
}

// CreateBox adds a box with full side lengths lx, ly, lz.
func (s *Space) CreateBox(lx, ly, lz float64) *Geom {
	g := newGeom(BoxClass)
	g.sides = mgl64.Vec3{lx, ly, lz}
	s.add(g)
	return g
}

// CreateCapsule adds a capsule along local Z with the given cylinder length.
func (s *Space) CreateCapsule(radius, length float64) *Geom {
	g := newGeom(CapsuleClass)
	g.radius = radius
	g.length = length
	s.add(g)
	return g
}

// CreateRay adds a ray of the given length pointing along +Z.
func (s *Space) CreateRay(length float64) *Geom {
	g := newGeom(RayClass)
	g.length = length
	s.add(g)
	return g
}

func (s *Space) add(g *Geom) {
	g.space = s
	s.geoms = append(s.geoms, g)
}

func (s *Space) remove(g *Geom) {
	for i, other := range s.geoms {
		if other == g {
			s.geoms = append(s.geoms[:i], s.geoms[i+1:]...)
			break
		}
	}
	g.space = nil
}

func (s *Space) NumGeoms() int { return len(s.geoms) }

func (s *Space) Geom(i int) *Geom { return s.geoms[i] }

func (s *Space) SetCellSize(size float64) {
	if size > 0 {
		s.cellSize = size
	}
}

// SetPairFinder routes broad-phase through f whenever the space holds at
// least threshold enabled geoms. A nil f restores the spatial hash.
func (s *Space) SetPairFinder(f PairFinder, threshold int) {
	s.finder = f
	s.finderThreshold = threshold
	s.usingFinder = false
}

// UsingPairFinder reports whether the last Collide used the pair finder.
func (s *Space) UsingPairFinder() bool { return s.usingFinder }

// PairFinderErr returns the error of the last failed pair finder call, after
// which Collide fell back to the spatial hash.
func (s *Space) PairFinderErr() error { return s.finderErr }

// Collide calls cb for every pair of enabled geoms whose bounds overlap.
// Geoms attached to the same body are never paired.
func (s *Space) Collide(cb NearCallback) {
	active := make([]*Geom, 0, len(s.geoms))
	for _, g := range s.geoms {
		if g.IsEnabled() {
			active = append(active, g)
		}
	}
	if len(active) < 2 {
		return
	}
	bounds := make([]AABB, len(active))
	for i, g := range active {
		bounds[i] = g.AABB()
	}

	for _, p := range s.candidatePairs(bounds) {
		g1, g2 := active[p[0]], active[p[1]]
		if !g1.IsEnabled() || !g2.IsEnabled() {
			continue
		}
		if g1.body != nil && g1.body == g2.body {
			continue
		}
		cb(g1, g2)
	}
}

// CollideGeom calls cb(g, other) for every enabled geom in the space whose
// bounds overlap g, in insertion order.
func (s *Space) CollideGeom(g *Geom, cb NearCallback) {
	if !g.IsEnabled() {
		return
	}
	bounds := g.AABB()
	for _, other := range append([]*Geom(nil), s.geoms...) {
		if other == g || !other.IsEnabled() {
			continue
		}
		if g.body != nil && g.body == other.body {
			continue
		}
		if bounds.Overlaps(other.AABB()) {
			cb(g, other)
		}
	}
}

func (s *Space) candidatePairs(bounds []AABB) [][2]int {
	s.usingFinder = false
	if s.finder != nil && len(bounds) >= s.finderThreshold {
		pairs, err := s.finder.FindPairs(bounds)
		if err == nil {
			s.usingFinder = true
			s.finderErr = nil
			sortPairs(pairs)
			return pairs
		}
		s.finderErr = err
	}
	return s.hashPairs(bounds)
}

func (s *Space) hashPairs(bounds []AABB) [][2]int {
	cells := make(map[cellKey][]int)
	var big []int

	for i, b := range bounds {
		lo, hi := s.cellOf(b.Min), s.cellOf(b.Max)
		n := (hi.X - lo.X + 1) * (hi.Y - lo.Y + 1) * (hi.Z - lo.Z + 1)
		if n > maxCellsPerGeom || n <= 0 {
			big = append(big, i)
			continue
		}
		for x := lo.X; x <= hi.X; x++ {
			for y := lo.Y; y <= hi.Y; y++ {
				for z := lo.Z; z <= hi.Z; z++ {
					k := cellKey{x, y, z}
					cells[k] = append(cells[k], i)
				}
			}
		}
	}

	seen := make(map[[2]int]struct{})
	var pairs [][2]int
	add := func(i, j int) {
		if i == j {
			return
		}
		if i > j {
			i, j = j, i
		}
		key := [2]int{i, j}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		if bounds[i].Overlaps(bounds[j]) {
			pairs = append(pairs, key)
		}
	}

	for _, members := range cells {
		for a := 0; a < len(members); a++ {
			for b := a + 1; b < len(members); b++ {
				add(members[a], members[b])
			}
		}
	}
	for _, i := range big {
		for j := range bounds {
			add(i, j)
		}
	}

	sortPairs(pairs)
	return pairs
}

func (s *Space) cellOf(v mgl64.Vec3) cellKey {
	return cellKey{
		X: int(math.Floor(v[0] / s.cellSize)),
		Y: int(math.Floor(v[1] / s.cellSize)),
		Z: int(math.Floor(v[2] / s.cellSize)),
	}
}

func sortPairs(pairs [][2]int) {
	for i := range pairs {
		if pairs[i][0] > pairs[i][1] {
			pairs[i][0], pairs[i][1] = pairs[i][1], pairs[i][0]
		}
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a][0] != pairs[b][0] {
			return pairs[a][0] < pairs[b][0]
		}
		return pairs[a][1] < pairs[b][1]
	})
}

// Destroy destroys every geom still in the space.
func (s *Space) Destroy() {
	for _, g := range append([]*Geom(nil), s.geoms...) {
		g.Destroy()
	}
}
