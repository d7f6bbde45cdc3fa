package invalidator

import "github.com/fsnotify/fsnotify"

// ChangeKind classifies a raw filesystem event into the four shapes the
// build cares about.
type ChangeKind int

const (
	Modified ChangeKind = iota
	Created
	Deleted
	Renamed
)

func (k ChangeKind) String() string {
	switch k {
	case Created:
		return "created"
	case Deleted:
		return "deleted"
	case Renamed:
		return "renamed"
	default:
		return "modified"
	}
}

// classify maps an fsnotify operation to a ChangeKind. fsnotify.Chmod
// carries no content implication and is dropped by the caller before
// classify is ever reached.
func classify(op fsnotify.Op) ChangeKind {
	switch {
	case op&fsnotify.Create != 0:
		return Created
	case op&fsnotify.Remove != 0:
		return Deleted
	case op&fsnotify.Rename != 0:
		return Renamed
	default:
		return Modified
	}
}
