// Package nav holds the fixed table of screens and a push-style router.
package nav

// Destination names a screen.
type Destination string

// Known destinations.
const (
	Index    Destination = "index"
	Record   Destination = "record"
	Analysis Destination = "analysis"
	Detail   Destination = "detail"
	About    Destination = "about"
)

var titles = map[Destination]string{
	Index:    "Timer",
	Record:   "History",
	Analysis: "Analysis",
	Detail:   "Day",
	About:    "About",
}

// Title returns the display name of d.
func (d Destination) Title() string {
	if title, ok := titles[d]; ok {
		return title
	}
	return string(d)
}

// Known reports whether d is in the table.
func (d Destination) Known() bool {
	_, ok := titles[d]
	return ok
}

// Router keeps a history stack of visited destinations.
type Router struct {
	stack []Destination
}

// NewRouter returns a router positioned at root.
func NewRouter(root Destination) *Router {
	return &Router{stack: []Destination{root}}
}

// Push navigates to d. Unknown destinations and pushing the current screen
// are ignored.
func (r *Router) Push(d Destination) bool {
	if !d.Known() || r.Current() == d {
		return false
	}
	r.stack = append(r.stack, d)
	return true
}

// Replace swaps the current screen for d without growing the history.
func (r *Router) Replace(d Destination) bool {
	if !d.Known() {
		return false
	}
	r.stack[len(r.stack)-1] = d
	return true
}

// Back pops the current screen. The root is never popped.
func (r *Router) Back() bool {
	if len(r.stack) <= 1 {
		return false
	}
	r.stack = r.stack[:len(r.stack)-1]
	return true
}

// Current returns the visible destination.
func (r *Router) Current() Destination {
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of screens on the stack.
func (r *Router) Depth() int {
	return len(r.stack)
}
