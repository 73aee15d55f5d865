package blocktag

// Unset marks a role for which no block number was found.
const Unset = "-"

// Tag is the goal/area assignment of one instruction. Both fields are
// either a numeral found in the instruction or Unset.
type Tag struct {
	Goal string
	Area string
}

// NewTag returns a Tag with both roles unset.
func NewTag() Tag {
	return Tag{Goal: Unset, Area: Unset}
}

// Tags maps raw instructions to their Tag. Keys keep the position of their
// first insertion; a repeated key overwrites the earlier value.
type Tags struct {
	keys []string
	m    map[string]Tag
}

// NewTags returns an empty Tags.
func NewTags() *Tags {
	return &Tags{m: map[string]Tag{}}
}

// Set stores tag under instruction.
func (t *Tags) Set(instruction string, tag Tag) {
	if _, ok := t.m[instruction]; !ok {
		t.keys = append(t.keys, instruction)
	}
	t.m[instruction] = tag
}

// Get returns the tag stored for instruction.
func (t *Tags) Get(instruction string) (Tag, bool) {
	tag, ok := t.m[instruction]
	return tag, ok
}

// Len returns the number of distinct instructions.
func (t *Tags) Len() int { return len(t.keys) }

// Keys returns the instructions in insertion order.
func (t *Tags) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Each calls fn for every entry in insertion order.
func (t *Tags) Each(fn func(instruction string, tag Tag)) {
	for _, k := range t.keys {
		fn(k, t.m[k])
	}
}

// Map returns a copy of the entries as a plain map.
func (t *Tags) Map() map[string]Tag {
	out := make(map[string]Tag, len(t.m))
	for k, v := range t.m {
		out[k] = v
	}
	return out
}
