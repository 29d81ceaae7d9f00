// Package redact finds literal target strings in a parsed document body and
// masks them with asterisks, including occurrences whose characters are split
// across fragment boundaries. Matching is per paragraph: the paragraph's
// fragments are flattened into one string, matches are located there, and the
// offset index maps each matched span back onto the fragments that produced
// it.
package redact

import (
	"runtime"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/docxtools/docxred/wordml"
)

// parallelThreshold is the paragraph count above which paragraphs are
// processed concurrently. Paragraphs share no state, so the only cost of the
// pool is its setup.
const parallelThreshold = 64

// Result summarizes a redaction pass. Zero matches is a normal outcome, not
// an error; callers that care can check Matches.
type Result struct {
	// Matches is the number of occurrences masked across the document.
	Matches int
}

// Redact masks every occurrence of the given targets in doc, in place.
// Targets are tried in input order at each position, so when two targets
// could match at the same offset the earlier one wins. Empty targets never
// match. When caseSensitive is false, comparison uses Unicode simple case
// folding, which is locale-independent.
func Redact(doc *wordml.Document, targets []string, caseSensitive bool) (Result, error) {
	cleaned := make([]string, 0, len(targets))
	for _, t := range targets {
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	paras := doc.Paragraphs()
	if len(cleaned) == 0 || len(paras) == 0 {
		return Result{}, nil
	}

	if len(paras) < parallelThreshold {
		total := 0
		for i, p := range paras {
			n, err := redactParagraph(p, i, cleaned, caseSensitive)
			if err != nil {
				return Result{}, err
			}
			total += n
		}
		return Result{Matches: total}, nil
	}
	return redactParallel(paras, cleaned, caseSensitive)
}

// redactParallel fans paragraphs out over a bounded worker pool. Results land
// in index-addressed slots, so output order matches input order no matter how
// execution interleaves.
func redactParallel(paras []*wordml.Paragraph, targets []string, caseSensitive bool) (Result, error) {
	workers := runtime.GOMAXPROCS(0)
	if workers > len(paras) {
		workers = len(paras)
	}

	counts := make([]int, len(paras))
	errs := make([]error, len(paras))
	work := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range work {
				counts[i], errs[i] = redactParagraph(paras[i], i, targets, caseSensitive)
			}
		}()
	}
	for i := range paras {
		work <- i
	}
	close(work)
	wg.Wait()

	total := 0
	for i := range paras {
		if errs[i] != nil {
			return Result{}, errs[i]
		}
		total += counts[i]
	}
	return Result{Matches: total}, nil
}

func redactParagraph(p *wordml.Paragraph, paraIdx int, targets []string, caseSensitive bool) (int, error) {
	frags := p.Fragments()
	if len(frags) == 0 {
		return 0, nil
	}
	flat, index := flatten(frags)
	if flat == "" {
		return 0, nil
	}

	matches := scan(flat, targets, caseSensitive)
	if len(matches) == 0 {
		return 0, nil
	}

	// Apply highest-offset-first so spans that are not yet rewritten keep
	// their indexed positions.
	cur := append([]*wordml.Fragment(nil), frags...)
	for i := len(matches) - 1; i >= 0; i-- {
		if err := applyMatch(p, paraIdx, cur, index, matches[i]); err != nil {
			return 0, err
		}
	}
	return len(matches), nil
}

type match struct {
	start, end int
}

// scan walks flat left to right. At every unconsumed position the first
// target (in input order) that matches wins; the scan then resumes past the
// matched span, so matches never overlap and a masked region is never
// rescanned. When occurrences touch — target "aa" against "aaa" — the
// leftmost wins and the trailing character stays unmatched.
func scan(flat string, targets []string, caseSensitive bool) []match {
	var found []match
	for i := 0; i < len(flat); {
		matched := false
		for _, t := range targets {
			var n int
			var ok bool
			if caseSensitive {
				ok = strings.HasPrefix(flat[i:], t)
				n = len(t)
			} else {
				n, ok = foldPrefix(flat[i:], t)
			}
			if ok {
				found = append(found, match{start: i, end: i + n})
				i += n
				matched = true
				break
			}
		}
		if !matched {
			_, size := utf8.DecodeRuneInString(flat[i:])
			i += size
		}
	}
	return found
}

// foldPrefix reports whether s starts with t under Unicode simple case
// folding, and the byte length of the matched prefix of s. Folded pairs can
// differ in encoded length (Kelvin sign vs 'k', long s vs 's'), so the
// matched length is measured in s, not taken from t.
func foldPrefix(s, t string) (int, bool) {
	n := 0
	for _, tr := range t {
		if n >= len(s) {
			return 0, false
		}
		sr, size := utf8.DecodeRuneInString(s[n:])
		if !foldEqual(sr, tr) {
			return 0, false
		}
		n += size
	}
	return n, true
}

// foldEqual reports whether two runes are equal under simple case folding,
// walking the fold orbit the way strings.EqualFold does per rune.
func foldEqual(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

// applyMatch rewrites every fragment the matched span overlaps. A fragment's
// overlapping sub-span is masked by splitting the fragment into untouched
// prefix, masked middle, and untouched suffix (empty edges omitted); each
// piece keeps the fragment's preserve flag and attributes, and the split
// stays inside the fragment's run, so formatting is never merged across
// fragments.
func applyMatch(p *wordml.Paragraph, paraIdx int, cur []*wordml.Fragment, index []span, m match) error {
	segs, err := matchSegments(paraIdx, index, m)
	if err != nil {
		return err
	}

	// Last fragment first: a lower-offset edit of the same fragment stays
	// valid inside the prefix piece recorded in cur.
	for s := len(segs) - 1; s >= 0; s-- {
		seg := segs[s]
		f := cur[seg.frag]
		if seg.hi > len(f.Text) {
			return &wordml.StructureError{Paragraph: paraIdx, Fragment: seg.frag, Reason: "fragment is shorter than its indexed span"}
		}

		prefix := f.Text[:seg.lo]
		masked := mask(f.Text[seg.lo:seg.hi])
		suffix := f.Text[seg.hi:]

		if prefix == "" && suffix == "" {
			f.Text = masked
			continue
		}

		parts := make([]*wordml.Fragment, 0, 3)
		if prefix != "" {
			parts = append(parts, &wordml.Fragment{Text: prefix, Preserve: f.Preserve, Attrs: f.Attrs})
		}
		parts = append(parts, &wordml.Fragment{Text: masked, Preserve: f.Preserve, Attrs: f.Attrs})
		if suffix != "" {
			parts = append(parts, &wordml.Fragment{Text: suffix, Preserve: f.Preserve, Attrs: f.Attrs})
		}
		if !p.ReplaceFragment(f, parts) {
			return &wordml.StructureError{Paragraph: paraIdx, Fragment: seg.frag, Reason: "fragment missing from its paragraph"}
		}
		cur[seg.frag] = parts[0]
	}
	return nil
}

// segment is the part of one matched span that one fragment contributed:
// byte offsets lo..hi into that fragment's text.
type segment struct {
	frag, lo, hi int
}

// matchSegments groups a matched span's bytes by originating fragment.
func matchSegments(paraIdx int, index []span, m match) ([]segment, error) {
	if m.end > len(index) {
		return nil, &wordml.StructureError{Paragraph: paraIdx, Fragment: -1, Reason: "match extends beyond flattened text"}
	}
	var segs []segment
	for off := m.start; off < m.end; off++ {
		sp := index[off]
		if n := len(segs); n > 0 && segs[n-1].frag == sp.frag {
			segs[n-1].hi = sp.local + 1
		} else {
			segs = append(segs, segment{frag: sp.frag, lo: sp.local, hi: sp.local + 1})
		}
	}
	return segs, nil
}

// mask replaces every character of s with an asterisk, one per rune, so the
// flattened character length of the paragraph is unchanged.
func mask(s string) string {
	return strings.Repeat("*", utf8.RuneCountInString(s))
}
