package domain

// JigState is the interactive placement state held on an annotation.
// The zero value means the annotation is fully placed.
type JigState int

const (
	StateDone JigState = iota
	StateAwaitInsertionPoint
	StateAwaitNextPoint
	StateAwaitCustomPoint
)

var jigStateNames = [...]string{"Done", "AwaitInsertionPoint", "AwaitNextPoint", "AwaitCustomPoint"}

func (s JigState) String() string {
	if s < 0 || int(s) >= len(jigStateNames) {
		return "Unknown"
	}
	return jigStateNames[s]
}

// Interactive reports whether the annotation is still being placed.
func (s JigState) Interactive() bool { return s != StateDone }
