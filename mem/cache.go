package mem

// numSets and numWays fix the cache geometry: 32 sets, 8 ways, one word per
// line.
const (
	numSets = 32
	numWays = 8
)

// setIndex returns the set a 16-bit address maps to: the top 5 bits.
func setIndex(a Address) int {
	return int((a >> 11) & 0x1F)
}

// tagOf returns the tag of a 16-bit address: the bottom 11 bits.
func tagOf(a Address) uint16 {
	return uint16(a & 0x7FF)
}

type cacheLine struct {
	valid bool
	tag   uint16
	value Word
}

// cacheSet holds the 8 ways of one set and its 7-bit tree-PLRU state.
//
// The tree is a balanced binary tree over the 8 ways, numbered as in
// SPEC_FULL §4.2:
//
//	plru[0] splits {0..3} (bit 0) from {4..7} (bit 1)
//	plru[1] splits {0,1} from {2,3}; plru[2] splits {4,5} from {6,7}
//	plru[3..6] split the final pairs {0,1} {2,3} {4,5} {6,7}
type cacheSet struct {
	ways [numWays]cacheLine
	plru [7]uint8
}

// wayPLRUPath lists, for each way, the (node, leadBit) pairs visited on the
// root-to-leaf path that selects it as victim: leadBit is the plru bit value
// at that node that leads toward this way.
var wayPLRUPath = [numWays][3]struct {
	node int
	lead uint8
}{
	0: {{0, 0}, {1, 0}, {3, 0}},
	1: {{0, 0}, {1, 0}, {3, 1}},
	2: {{0, 0}, {1, 1}, {4, 0}},
	3: {{0, 0}, {1, 1}, {4, 1}},
	4: {{0, 1}, {2, 0}, {5, 0}},
	5: {{0, 1}, {2, 0}, {5, 1}},
	6: {{0, 1}, {2, 1}, {6, 0}},
	7: {{0, 1}, {2, 1}, {6, 1}},
}

// victimWay walks the tree from the root, taking the direction each bit
// indicates, and returns the leaf it lands on.
func (cs *cacheSet) victimWay() int {
	if cs.plru[0] == 0 {
		if cs.plru[1] == 0 {
			if cs.plru[3] == 0 {
				return 0
			}
			return 1
		}
		if cs.plru[4] == 0 {
			return 2
		}
		return 3
	}
	if cs.plru[2] == 0 {
		if cs.plru[5] == 0 {
			return 4
		}
		return 5
	}
	if cs.plru[6] == 0 {
		return 6
	}
	return 7
}

// touch marks way w as most-recently-used: every bit on its root-to-leaf
// path is set to point away from it.
func (cs *cacheSet) touch(w int) {
	for _, step := range wayPLRUPath[w] {
		cs.plru[step.node] = 1 - step.lead
	}
}

// find returns the way holding tag, if any way in the set is valid and
// matches.
func (cs *cacheSet) find(tag uint16) (way int, ok bool) {
	for i, l := range cs.ways {
		if l.valid && l.tag == tag {
			return i, true
		}
	}
	return 0, false
}

func (cs *cacheSet) reset() {
	*cs = cacheSet{}
}
