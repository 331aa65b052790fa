package git

// Commit is a node of the in-memory history graph. Sha and Parents are
// immutable once loaded; Children are derived by inverting parent links
// after the full set is known.
type Commit struct {
	Sha      Sha
	Parents  []Sha
	Children []Sha
	Refs     []RefName
}
