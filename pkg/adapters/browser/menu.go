package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/identify-labs/marquee/internal/logging"
	"github.com/identify-labs/marquee/pkg/menu"
)

// MenuBinding is the page function the installed listeners report to.
const MenuBinding = "marqueeMenu"

// MenuDocument implements menu.Document against the site's mobile menu
// markup (.mobile-menu, .mobile-menu-overlay, .mobile-menu-toggle).
// Page errors are logged; the controller has no way to act on them.
type MenuDocument struct {
	page   *rod.Page
	logger *slog.Logger
}

// NewMenuDocument binds a menu document to page. A nil logger discards output.
func NewMenuDocument(page *rod.Page, logger *slog.Logger) *MenuDocument {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &MenuDocument{page: page, logger: logger}
}

func (d *MenuDocument) eval(js string, args ...interface{}) *proto.RuntimeRemoteObject {
	res, err := d.page.Eval(js, args...)
	if err != nil {
		d.logger.Warn("menu script failed", "err", err)
		return nil
	}
	return res
}

func (d *MenuDocument) ScrollY() int {
	res := d.eval(`() => Math.round(window.scrollY)`)
	if res == nil {
		return 0
	}
	return res.Value.Int()
}

func (d *MenuDocument) LockScroll(y int) {
	d.eval(`(y) => {
	const s = document.body.style;
	s.position = 'fixed';
	s.top = -y + 'px';
	s.width = '100%';
}`, y)
}

func (d *MenuDocument) UnlockScroll(y int) {
	d.eval(`(y) => {
	const s = document.body.style;
	s.position = '';
	s.top = '';
	s.width = '';
	window.scrollTo(0, y);
}`, y)
}

// ActiveElement returns a selector for the focused element. Elements without
// an id are tagged so Focus can find them again.
func (d *MenuDocument) ActiveElement() string {
	res := d.eval(`() => {
	const el = document.activeElement;
	if (!el || el === document.body) return '';
	if (el.id) return '#' + CSS.escape(el.id);
	el.setAttribute('data-menu-return-focus', '');
	return '[data-menu-return-focus]';
}`)
	if res == nil {
		return ""
	}
	return res.Value.Str()
}

func (d *MenuDocument) Focus(handle string) {
	d.eval(`(sel) => {
	const el = document.querySelector(sel);
	if (!el) return;
	el.removeAttribute('data-menu-return-focus');
	el.focus();
}`, handle)
}

func (d *MenuDocument) SetMenuActive(active bool) {
	d.eval(`(active) => {
	for (const sel of ['.mobile-menu', '.mobile-menu-overlay', '.mobile-menu-toggle']) {
		const el = document.querySelector(sel);
		if (el) el.classList.toggle('active', active);
	}
	const toggle = document.querySelector('.mobile-menu-toggle');
	if (toggle) toggle.setAttribute('aria-expanded', String(active));
}`, active)
}

// MenuEvent is one interaction reported by the page listeners.
type MenuEvent struct {
	Type    string  `json:"type"`
	Key     string  `json:"key,omitempty"`
	Section string  `json:"section,omitempty"`
	Y       float64 `json:"y,omitempty"`
	Deg     int     `json:"deg,omitempty"`
}

// DispatchMenuEvent decodes a listener payload and applies it to ctrl.
func DispatchMenuEvent(ctrl *menu.Controller, payload string) error {
	var ev MenuEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return fmt.Errorf("invalid menu event: %w", err)
	}

	switch ev.Type {
	case "toggle":
		ctrl.Toggle()
	case "close":
		ctrl.Close()
	case "navigate":
		ctrl.Navigate(ev.Section)
	case "key":
		ctrl.HandleKey(ev.Key)
	case "touchstart":
		ctrl.TouchStart(ev.Y)
	case "touchend":
		ctrl.TouchEnd(ev.Y)
	case "orientation":
		ctrl.OrientationChange(ev.Deg)
	default:
		return fmt.Errorf("unknown menu event %q", ev.Type)
	}
	return nil
}

const menuListeners = `(binding) => {
	const send = (ev) => window[binding](JSON.stringify(ev));
	const click = (sel, ev) => {
		const el = document.querySelector(sel);
		if (el) el.addEventListener('click', (e) => { e.preventDefault(); send(ev); });
	};
	click('.mobile-menu-toggle', {type: 'toggle'});
	click('.mobile-menu-close', {type: 'close'});
	click('.mobile-menu-overlay', {type: 'close'});
	document.querySelectorAll('.mobile-menu-nav a').forEach((a) => {
		a.addEventListener('click', () => send({type: 'navigate', section: a.getAttribute('href') || ''}));
	});
	document.addEventListener('keydown', (e) => {
		if (e.key === 'Escape') send({type: 'key', key: e.key});
	});
	document.addEventListener('touchstart', (e) => send({type: 'touchstart', y: e.changedTouches[0].screenY}), {passive: true});
	document.addEventListener('touchend', (e) => send({type: 'touchend', y: e.changedTouches[0].screenY}), {passive: true});
	window.addEventListener('orientationchange', () => {
		setTimeout(() => send({type: 'orientation', deg: window.orientation || 0}), 100);
	});
}`

// BindMenu routes the page's menu interactions to ctrl until ctx is done.
func BindMenu(ctx context.Context, page *rod.Page, ctrl *menu.Controller, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := (proto.RuntimeAddBinding{Name: MenuBinding}).Call(page); err != nil {
		return fmt.Errorf("failed to add menu binding: %w", err)
	}
	if _, err := page.Eval(menuListeners, MenuBinding); err != nil {
		return fmt.Errorf("failed to install menu listeners: %w", err)
	}

	wait := page.Context(ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name != MenuBinding {
			return
		}
		if err := DispatchMenuEvent(ctrl, e.Payload); err != nil {
			logger.Warn("menu event dropped", "err", err)
		}
	})
	go wait()

	logger.Debug("menu bound", "binding", MenuBinding)
	return nil
}
