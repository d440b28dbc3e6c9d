package router

// History is a stack of visited paths with a cursor, like a browser tab's.
// It is not safe for concurrent use.
type History struct {
	entries []string
	index   int
}

// NewHistory returns an empty history
func NewHistory() *History {
	return &History{index: -1}
}

// Push drops any forward entries and appends path
func (h *History) Push(path string) {
	h.entries = append(h.entries[:h.index+1], path)
	h.index = len(h.entries) - 1
}

// Replace overwrites the current entry, or pushes when there is none
func (h *History) Replace(path string) {
	if h.index < 0 {
		h.Push(path)
		return
	}
	h.entries[h.index] = path
}

// Back moves the cursor one entry back and returns that entry
func (h *History) Back() (string, bool) {
	if h.index <= 0 {
		return "", false
	}
	h.index--
	return h.entries[h.index], true
}

// Current returns the entry under the cursor
func (h *History) Current() (string, bool) {
	if h.index < 0 {
		return "", false
	}
	return h.entries[h.index], true
}

// Len is the number of entries, including forward ones
func (h *History) Len() int {
	return len(h.entries)
}
