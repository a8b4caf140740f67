package entry

import "strings"

// TagSeparator splits a tag definition into its hierarchy segments.
const TagSeparator = "-"

// Tag is an immutable hierarchical label such as "Food-Restaurant". Segments
// are precomputed at construction; two tags are equal when their definitions
// are equal.
type Tag struct {
	definition string
	segments   []string
}

// NewTag builds a tag from its textual definition.
func NewTag(definition string) Tag {
	return Tag{
		definition: definition,
		segments:   strings.Split(definition, TagSeparator),
	}
}

// UndefinedTag marks transactions no tag rule matched.
var UndefinedTag = NewTag("Undefined")

func (t Tag) String() string { return t.definition }

// Equal compares by definition.
func (t Tag) Equal(other Tag) bool { return t.definition == other.definition }

// Contains reports whether other extends t's hierarchy path. The comparison
// is segment-wise, not a plain string prefix: "Car" does not contain
// "Carpet".
func (t Tag) Contains(other Tag) bool {
	if t.Equal(other) {
		return true
	}
	if len(t.segments) > len(other.segments) {
		return false
	}
	for i, seg := range t.segments {
		if other.segments[i] != seg {
			return false
		}
	}
	return true
}

// ContainedTags returns the tag and all its ancestors, most specific first:
// "A-B-C" yields ["A-B-C", "A-B", "A"].
func (t Tag) ContainedTags() []Tag {
	tags := make([]Tag, 0, len(t.segments))
	for i := len(t.segments); i > 0; i-- {
		tags = append(tags, NewTag(strings.Join(t.segments[:i], TagSeparator)))
	}
	return tags
}

// TagGroup is the ordered multiset of tags attached to one entry. Groups are
// compared and used as aggregation keys through their joined string form.
type TagGroup struct {
	tags []Tag
}

// Add appends a tag and returns the group for chaining.
func (g *TagGroup) Add(tag Tag) *TagGroup {
	g.tags = append(g.tags, tag)
	return g
}

// Tags returns the tags in insertion order.
func (g *TagGroup) Tags() []Tag { return g.tags }

// Key returns the canonical string form used as a map key.
func (g *TagGroup) Key() string {
	parts := make([]string, len(g.tags))
	for i, t := range g.tags {
		parts[i] = t.String()
	}
	return strings.Join(parts, " / ")
}

func (g *TagGroup) String() string { return g.Key() }
