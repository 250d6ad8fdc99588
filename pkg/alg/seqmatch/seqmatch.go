// Package seqmatch computes edit-based string similarity using the classic
// matching-block ratio: 2*M/T, where T is the combined length of both
// strings and M is the total size of the longest matching blocks found by
// recursive alignment (Ratcliff/Obershelp). Author-name merge thresholds
// are calibrated against this metric, so it must not be swapped for
// Levenshtein distance or substring containment.
package seqmatch

// Match is a matching block: a run of Size equal runes starting at index A
// in the first sequence and index B in the second.
type Match struct {
	A    int
	B    int
	Size int
}

// Matcher compares two rune sequences. The zero value is not usable;
// construct with NewMatcher.
type Matcher struct {
	a   []rune
	b   []rune
	b2j map[rune][]int
}

// NewMatcher creates a Matcher over the two strings.
func NewMatcher(a, b string) *Matcher {
	m := &Matcher{
		a:   []rune(a),
		b:   []rune(b),
		b2j: make(map[rune][]int),
	}

	for j, r := range m.b {
		m.b2j[r] = append(m.b2j[r], j)
	}

	return m
}

// Ratio returns the similarity of the two strings in [0, 1].
// Two empty strings have ratio 1.
func Ratio(a, b string) float64 {
	return NewMatcher(a, b).Ratio()
}

// Ratio returns 2*M/T for the matcher's sequences.
func (m *Matcher) Ratio() float64 {
	total := len(m.a) + len(m.b)
	if total == 0 {
		return 1.0
	}

	matched := 0
	for _, blk := range m.MatchingBlocks() {
		matched += blk.Size
	}

	return 2.0 * float64(matched) / float64(total)
}

// span is a pending sub-problem for the recursive block search.
type span struct {
	alo, ahi, blo, bhi int
}

// MatchingBlocks returns the longest matching blocks in order of position
// in the first sequence. Blocks never overlap and are found greedily:
// the longest block first, then recursively to its left and right.
func (m *Matcher) MatchingBlocks() []Match {
	var blocks []Match

	queue := []span{{0, len(m.a), 0, len(m.b)}}

	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		blk := m.longestMatch(s.alo, s.ahi, s.blo, s.bhi)
		if blk.Size == 0 {
			continue
		}

		blocks = append(blocks, blk)

		if s.alo < blk.A && s.blo < blk.B {
			queue = append(queue, span{s.alo, blk.A, s.blo, blk.B})
		}

		if blk.A+blk.Size < s.ahi && blk.B+blk.Size < s.bhi {
			queue = append(queue, span{blk.A + blk.Size, s.ahi, blk.B + blk.Size, s.bhi})
		}
	}

	sortBlocks(blocks)

	return blocks
}

// longestMatch finds the longest block of equal runes within
// a[alo:ahi] x b[blo:bhi]. Ties resolve to the earliest position in a,
// then the earliest in b.
func (m *Matcher) longestMatch(alo, ahi, blo, bhi int) Match {
	best := Match{A: alo, B: blo}
	j2len := make(map[int]int)

	for i := alo; i < ahi; i++ {
		newJ2len := make(map[int]int)

		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}

			if j >= bhi {
				break
			}

			k := j2len[j-1] + 1
			newJ2len[j] = k

			if k > best.Size {
				best = Match{A: i - k + 1, B: j - k + 1, Size: k}
			}
		}

		j2len = newJ2len
	}

	return best
}

// sortBlocks orders blocks by position in the first sequence.
// Insertion sort; block counts are tiny for name-length inputs.
func sortBlocks(blocks []Match) {
	for i := 1; i < len(blocks); i++ {
		for j := i; j > 0 && blocks[j].A < blocks[j-1].A; j-- {
			blocks[j], blocks[j-1] = blocks[j-1], blocks[j]
		}
	}
}
