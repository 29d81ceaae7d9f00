package redact

import (
	"fmt"
	"strings"
	"time"

	"github.com/docxtools/docxred/wordml"
)

// Revision is the metadata Word records on every tracked change.
type Revision struct {
	Author string
	Date   time.Time
}

// RedactTracked masks occurrences as Word tracked changes instead of editing
// text in place: each matched span is removed from its fragments and recorded
// next to them as a deletion revision holding the original text followed by
// an insertion revision holding the mask, so the change can be reviewed and
// accepted or rejected in a word processor. Matching and tie-breaking are
// identical to Redact. Revision ids are assigned sequentially in document
// order, so paragraphs are processed serially.
func RedactTracked(doc *wordml.Document, targets []string, caseSensitive bool, rev Revision) (Result, error) {
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

	total := 0
	nextID := 1
	for i, p := range paras {
		n, err := trackParagraph(p, i, cleaned, caseSensitive, rev, nextID)
		if err != nil {
			return Result{}, err
		}
		total += n
		nextID += 2 * n
	}
	return Result{Matches: total}, nil
}

func trackParagraph(p *wordml.Paragraph, paraIdx int, targets []string, caseSensitive bool, rev Revision, nextID int) (int, error) {
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

	// Apply highest-offset-first, as in the in-place mode. Removal without
	// splitting keeps every lower offset of a shared fragment valid.
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		segs, err := matchSegments(paraIdx, index, m)
		if err != nil {
			return 0, err
		}

		for s := len(segs) - 1; s >= 0; s-- {
			seg := segs[s]
			f := frags[seg.frag]
			if seg.hi > len(f.Text) {
				return 0, &wordml.StructureError{Paragraph: paraIdx, Fragment: seg.frag, Reason: "fragment is shorter than its indexed span"}
			}
			f.Text = f.Text[:seg.lo] + f.Text[seg.hi:]
		}

		original := flat[m.start:m.end]
		markup := revisionMarkup(original, mask(original), nextID+2*i, rev)
		insertRevision(p, frags[segs[len(segs)-1].frag], markup)
	}
	return len(matches), nil
}

// revisionMarkup renders one tracked change: a w:del revision carrying the
// removed text as w:delText, then a w:ins revision carrying the mask.
func revisionMarkup(original, masked string, delID int, rev Revision) string {
	author := escapeAttr(rev.Author)
	date := rev.Date.UTC().Format("2006-01-02T15:04:05Z")

	var b strings.Builder
	fmt.Fprintf(&b, `<w:del w:id="%d" w:author="%s" w:date="%s"><w:r><w:delText`, delID, author, date)
	if strings.TrimSpace(original) != original {
		b.WriteString(` xml:space="preserve"`)
	}
	b.WriteByte('>')
	b.WriteString(wordml.EscapeText(original))
	b.WriteString(`</w:delText></w:r></w:del>`)
	fmt.Fprintf(&b, `<w:ins w:id="%d" w:author="%s" w:date="%s"><w:r><w:t>%s</w:t></w:r></w:ins>`, delID+1, author, date, masked)
	return b.String()
}

// insertRevision places markup between runs, directly after the run holding
// the last fragment the match touched. Revisions are paragraph-level content,
// so the insertion point is right behind that run's closing tag; a paragraph
// with no closing run tag after the fragment gets the revision appended.
func insertRevision(p *wordml.Paragraph, after *wordml.Fragment, markup string) {
	idx := -1
	for i, c := range p.Children {
		if c == wordml.Child(after) {
			idx = i
			break
		}
	}
	for i := idx + 1; i >= 0 && i < len(p.Children); i++ {
		r, ok := p.Children[i].(wordml.Raw)
		if !ok {
			continue
		}
		if j := strings.Index(r.Markup, "</w:r>"); j >= 0 {
			cut := j + len("</w:r>")
			p.Children[i] = wordml.Raw{Markup: r.Markup[:cut] + markup + r.Markup[cut:]}
			return
		}
	}
	p.Children = append(p.Children, wordml.Raw{Markup: markup})
}

func escapeAttr(s string) string {
	s = wordml.EscapeText(s)
	return strings.ReplaceAll(s, `"`, "&quot;")
}
