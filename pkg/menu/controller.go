// Package menu holds the mobile navigation controller.
package menu

import (
	"log/slog"
	"sync"

	"github.com/identify-labs/marquee/internal/logging"
)

// SwipeThreshold is the vertical travel, in pixels, that counts as a swipe.
const SwipeThreshold = 50

// Document is the page surface the controller drives.
type Document interface {
	// ScrollY returns the current vertical scroll offset.
	ScrollY() int
	// LockScroll pins the body at offset y.
	LockScroll(y int)
	// UnlockScroll releases the body and scrolls back to y.
	UnlockScroll(y int)
	// ActiveElement returns a handle to the focused element, or "".
	ActiveElement() string
	// Focus moves focus to the element handle.
	Focus(handle string)
	// SetMenuActive shows or hides the menu, its overlay and the toggle state.
	SetMenuActive(active bool)
}

// Controller owns the mobile menu state: whether it is open, the scroll
// offset saved when it opened and the element that had focus before.
type Controller struct {
	doc    Document
	logger *slog.Logger

	mu          sync.Mutex
	open        bool
	scrollY     int
	focusTrap   bool
	previous    string
	touchStartY float64
	orientation int
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithOrientation sets the initial device orientation in degrees.
func WithOrientation(deg int) Option {
	return func(c *Controller) {
		c.orientation = deg
	}
}

// New creates a closed controller.
func New(doc Document, opts ...Option) *Controller {
	c := &Controller{
		doc:    doc,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsOpen reports whether the menu is shown.
func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// FocusTrapped reports whether keyboard focus is confined to the menu.
func (c *Controller) FocusTrapped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focusTrap
}

// Toggle opens a closed menu and closes an open one.
func (c *Controller) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.open {
		c.closeLocked()
		return
	}
	c.openLocked()
}

// Open shows the menu, locking page scroll at the current offset.
func (c *Controller) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.openLocked()
}

// Close hides the menu, restoring scroll and focus.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

// Navigate closes the menu before the page scrolls to a section.
func (c *Controller) Navigate(section string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("menu navigate", "section", section)
	c.closeLocked()
}

// HandleKey reacts to a key press and reports whether it was consumed.
func (c *Controller) HandleKey(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key == "Escape" && c.open {
		c.closeLocked()
		return true
	}
	return false
}

// TouchStart records where a touch began.
func (c *Controller) TouchStart(y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchStartY = y
}

// TouchEnd closes an open menu when the touch was a downward swipe.
func (c *Controller) TouchEnd(y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	diff := c.touchStartY - y
	if diff < -SwipeThreshold && c.open {
		c.logger.Debug("menu swipe close", "distance", -diff)
		c.closeLocked()
	}
}

// OrientationChange closes an open menu when the orientation actually changed.
func (c *Controller) OrientationChange(deg int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if deg == c.orientation {
		return
	}
	c.orientation = deg
	if c.open {
		c.closeLocked()
	}
}

func (c *Controller) openLocked() {
	if c.open {
		return
	}
	c.previous = c.doc.ActiveElement()
	c.scrollY = c.doc.ScrollY()
	c.doc.LockScroll(c.scrollY)
	c.doc.SetMenuActive(true)
	c.open = true
	c.focusTrap = true
	c.logger.Debug("menu opened", "scroll_y", c.scrollY)
}

func (c *Controller) closeLocked() {
	if !c.open {
		return
	}
	c.doc.SetMenuActive(false)
	c.doc.UnlockScroll(c.scrollY)
	if c.previous != "" {
		c.doc.Focus(c.previous)
	}
	c.open = false
	c.focusTrap = false
	c.previous = ""
	c.logger.Debug("menu closed", "scroll_y", c.scrollY)
}
