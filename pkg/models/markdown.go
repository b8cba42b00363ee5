package models

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"
)

// Markdown renders the factor as a bold label followed by its value.
func (f *Factor) Markdown() string {
	if f.IsCSVIndex() {
		return fmt.Sprintf("**%s**: datafile column %d\n\n", f.Label(), *f.CSVColumnIndex)
	}
	v, _ := f.Value()
	return fmt.Sprintf("**%s**: %s\n\n", f.Label(), v)
}

// Markdown renders the species and its stoichiometry.
func (s *SpeciesFactor) Markdown() string {
	return fmt.Sprintf("**%s** stoichiometry: %s\n\n", s.SpeciesReference, fmtFloat(s.Stoichiometry))
}

// Markdown renders the comment title and body.
func (c *Comment) Markdown() string {
	return fmt.Sprintf("**%s**: %s\n\n", c.CommentTitle, deref(c.CommentBody))
}

// Markdown renders the source heading and its elements.
func (s *Source) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "##### %s\n", s.SourceName)
	writeMarkdown(&b, s.Factors)
	writeMarkdown(&b, s.Species)
	writeMarkdown(&b, s.Comments)
	return b.String()
}

// Markdown renders the sample heading, a summary line, its elements and sources.
func (s *Sample) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#### %s\n", s.SampleName)
	fmt.Fprintf(&b, "*%s*\n\n", summarize(
		count{len(s.Sources), "source"},
		count{len(s.Factors), "factor"},
		count{len(s.Species), "species"},
	))
	writeMarkdown(&b, s.Factors)
	writeMarkdown(&b, s.Species)
	writeMarkdown(&b, s.Comments)
	writeMarkdown(&b, s.Sources)
	return b.String()
}

// Markdown renders the experiment heading, datafile, elements and samples.
func (e *Experiment) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n", e.Name)
	if e.HasDatafile() {
		fmt.Fprintf(&b, "**Datafile**: `%s`\n\n", e.Datafile)
	}
	writeMarkdown(&b, e.Factors)
	writeMarkdown(&b, e.Comments)
	writeMarkdown(&b, e.Samples)
	return b.String()
}

// Markdown renders the node header from its information followed by every experiment.
func (n *Node) Markdown() string {
	var b strings.Builder
	if info := n.NodeInformation; len(info) > 0 {
		fmt.Fprintf(&b, "# %v\n\n", infoValue(info, "node_title"))
		fmt.Fprintf(&b, "**Description**: %v\n\n", infoValue(info, "node_description"))
		fmt.Fprintf(&b, "**Submission Date**: *%v*\n\n", infoValue(info, "submission_date"))
		fmt.Fprintf(&b, "**Public Release Date**: *%v*\n\n", infoValue(info, "public_release_date"))
		b.WriteString("---\n")
	}
	fmt.Fprintf(&b, "*%s*\n\n", summarize(
		count{len(n.Experiments), "experiment"},
		count{len(n.Samples), "sample"},
		count{len(n.Factors), "factor"},
	))
	writeMarkdown(&b, n.Factors)
	writeMarkdown(&b, n.Comments)
	writeMarkdown(&b, n.Experiments)
	return b.String()
}

type markdowner interface {
	Markdown() string
}

func writeMarkdown[T markdowner](b *strings.Builder, items []T) {
	for _, it := range items {
		b.WriteString(it.Markdown())
	}
}

type count struct {
	n    int
	noun string
}

// summarize renders counts like "1 sample, 3 factors".
func summarize(counts ...count) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		noun := inflection.Singular(c.noun)
		if c.n != 1 {
			noun = inflection.Plural(noun)
		}
		parts = append(parts, fmt.Sprintf("%d %s", c.n, noun))
	}
	return strings.Join(parts, ", ")
}

func infoValue(info map[string]any, key string) any {
	if v, ok := info[key]; ok && v != nil {
		return v
	}
	return ""
}
