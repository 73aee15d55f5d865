package blocktag

import "fmt"

// Role is the semantic role a cue assigns to the number that follows it.
type Role int

const (
	RoleNone Role = iota
	RoleGoal      // number is the block to move
	RoleArea      // number is the reference block
)

func (r Role) String() string {
	switch r {
	case RoleGoal:
		return "goal"
	case RoleArea:
		return "area"
	default:
		return "none"
	}
}

var (
	// DefaultGoalCues precede a goal block. The lower-case "move" without the
	// other lower-case verbs matches the labelled corpus and is kept as is.
	DefaultGoalCues = []string{"Take", "Move", "Place", "Find", "move"}
	// DefaultAreaCues precede an area block.
	DefaultAreaCues = []string{"of", "above", "below", "as"}
)

// Lexicon maps cue words to roles. Matching is exact and case-sensitive.
type Lexicon struct {
	byWord map[string]Role
}

// NewLexicon returns an empty lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{byWord: map[string]Role{}}
}

// DefaultLexicon returns a lexicon holding DefaultGoalCues and DefaultAreaCues.
func DefaultLexicon() *Lexicon {
	l := NewLexicon()
	// the default lists are disjoint
	_ = l.Register(RoleGoal, DefaultGoalCues...)
	_ = l.Register(RoleArea, DefaultAreaCues...)
	return l
}

// Register adds words as cues for role. A word may belong to one role only.
func (l *Lexicon) Register(role Role, words ...string) error {
	if role != RoleGoal && role != RoleArea {
		return fmt.Errorf("register cue: invalid role %v", role)
	}
	for _, w := range words {
		if prev, ok := l.byWord[w]; ok && prev != role {
			return fmt.Errorf("register cue %q as %s: already a %s cue", w, role, prev)
		}
		l.byWord[w] = role
	}
	return nil
}

// Lookup returns the role of word, or RoleNone.
func (l *Lexicon) Lookup(word string) Role {
	return l.byWord[word]
}
