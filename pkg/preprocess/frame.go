package preprocess

// condFrame tracks one @if/@elif/@else/@end block. Its first four fields are
// named directly after spec.md §4.1's description of the required state.
type condFrame struct {
	parentActive    bool // whether the enclosing frame (or top level) is emitting
	anyBranchMatched bool // whether some earlier branch in this block already matched
	isActive        bool // whether the current branch is the one being emitted
	elseSeen        bool
	line            int // line of the opening @if, for unclosed-block diagnostics
}

// active reports whether lines under this frame should be emitted:
// requires both that the enclosing context is active and that this
// frame's own branch is the selected one.
func (f condFrame) active() bool { return f.parentActive && f.isActive }

// frameStack is a simple LIFO of condFrames, one push per open @if.
type frameStack struct {
	frames []condFrame
}

func (s *frameStack) push(f condFrame) { s.frames = append(s.frames, f) }

func (s *frameStack) pop() (condFrame, bool) {
	if len(s.frames) == 0 {
		return condFrame{}, false
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top, true
}

func (s *frameStack) top() (*condFrame, bool) {
	if len(s.frames) == 0 {
		return nil, false
	}
	return &s.frames[len(s.frames)-1], true
}

func (s *frameStack) empty() bool { return len(s.frames) == 0 }

// parentIsActive reports whether the context enclosing a new @if frame
// (i.e. the currently active frame, if any) is itself emitting lines.
func (s *frameStack) parentIsActive() bool {
	if top, ok := s.top(); ok {
		return top.active()
	}
	return true
}
