package listview

// window tracks the cursor and the first visible row of the list.
type window struct {
	cursor int
	offset int
	rows   int // visible rows, 0 = unbounded
}

// move shifts the cursor by delta within [0, count) and keeps it visible.
// It reports whether the cursor moved.
func (w *window) move(delta, count int) bool {
	if count <= 0 {
		return false
	}
	next := w.cursor + delta
	next = max(0, min(next, count-1))
	if next == w.cursor {
		return false
	}
	w.setCursor(next)
	return true
}

func (w *window) first() { w.cursor, w.offset = 0, 0 }

func (w *window) last(count int) {
	if count <= 0 {
		return
	}
	w.setCursor(count - 1)
}

func (w *window) setCursor(i int) {
	w.cursor = i
	if w.cursor < w.offset {
		w.offset = w.cursor
	}
	if w.rows > 0 && w.cursor >= w.offset+w.rows {
		w.offset = w.cursor - w.rows + 1
	}
}

// clamp keeps cursor and offset valid after the items changed underneath.
func (w *window) clamp(count int) {
	if w.cursor >= count {
		w.cursor = count - 1
	}
	if w.cursor < 0 {
		w.cursor = 0
	}
	if w.offset > w.cursor {
		w.offset = w.cursor
	}
	if w.rows > 0 && w.cursor >= w.offset+w.rows {
		w.offset = w.cursor - w.rows + 1
	}
	if w.offset < 0 {
		w.offset = 0
	}
}

// visible returns the [start, end) range of rows to render.
func (w window) visible(count int) (start, end int) {
	if w.rows <= 0 {
		return 0, count
	}
	start = min(w.offset, count)
	end = min(w.offset+w.rows, count)
	return start, end
}

// page is the distance of a page jump.
func (w window) page() int {
	if w.rows <= 1 {
		return 10
	}
	return w.rows - 1
}
