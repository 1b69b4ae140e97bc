package browser_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/identify-labs/marquee/pkg/adapters/browser"
	"github.com/identify-labs/marquee/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorFor(t *testing.T) {
	assert.Equal(t, `[data-hero-target="time-label"]`, browser.SelectorFor(domain.TargetTimeLabel))
}

func TestStage_SelectorOverride(t *testing.T) {
	s := browser.New(nil, browser.WithSelectors(map[string]string{
		domain.TargetHero: ".hero",
	}))

	assert.Equal(t, ".hero", s.Selector(domain.TargetHero))
	assert.Equal(t, browser.SelectorFor(domain.TargetOverlay), s.Selector(domain.TargetOverlay))
	assert.Equal(t, browser.SelectorFor("unknown"), s.Selector("unknown"))
}

func TestScript(t *testing.T) {
	tests := []struct {
		name     string
		effect   domain.Effect
		contains string
		args     []interface{}
	}{
		{"reveal message", domain.Effect{Action: domain.ActionRevealMessage, Text: "hi"}, "classList.add('visible')", []interface{}{"hi"}},
		{"reveal status", domain.Effect{Action: domain.ActionRevealStatus, Text: "done"}, "textContent = text", []interface{}{"done"}},
		{"show typing", domain.Effect{Action: domain.ActionShowTyping}, "classList.add(cls)", []interface{}{browser.ClassVisible}},
		{"hide typing", domain.Effect{Action: domain.ActionHideTyping}, "classList.remove(cls)", []interface{}{browser.ClassVisible}},
		{"swap label", domain.Effect{Action: domain.ActionSwapLabelText, Text: "8:12 AM"}, "textContent = text", []interface{}{"8:12 AM"}},
		{"activate overlay", domain.Effect{Action: domain.ActionActivateOverlay}, "classList.add(cls)", []interface{}{browser.ClassActive}},
		{"deactivate overlay", domain.Effect{Action: domain.ActionDeactivateOverlay}, "classList.remove(cls)", []interface{}{browser.ClassActive}},
		{"finalize", domain.Effect{Action: domain.ActionFinalize}, "classList.add(cls)", []interface{}{browser.ClassRevealed}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			js, args := browser.Script(tt.effect)
			assert.Contains(t, js, tt.contains)
			assert.Equal(t, tt.args, args)
		})
	}
}

const heroPage = `<!doctype html><html><body>
<section data-hero-target="hero">
  <div data-hero-target="message-greeting"></div>
  <div data-hero-target="typing-indicator"></div>
  <div data-hero-target="message-reply"></div>
  <span data-hero-target="time-label">8:11 AM</span>
  <div data-hero-target="scan-overlay"></div>
  <div data-hero-target="scan-status"></div>
</section>
</body></html>`

// Runs only when MARQUEE_TEST_BROWSER=true since it launches Chromium.
func TestStage_LivePage(t *testing.T) {
	if os.Getenv("MARQUEE_TEST_BROWSER") != "true" {
		t.Skip("set MARQUEE_TEST_BROWSER=true to run browser tests")
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(heroPage))
	}))
	defer ts.Close()

	u := launcher.New().Headless(true).Leakless(false).MustLaunch()
	b := rod.New().ControlURL(u).MustConnect()
	defer b.MustClose()

	page := b.MustIncognito().MustPage(ts.URL).MustWaitLoad()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	stage := browser.New(page)

	require.NoError(t, stage.Apply(ctx, domain.Effect{Action: domain.ActionSwapLabelText, Target: domain.TargetTimeLabel, Text: "8:12 AM"}))
	assert.Equal(t, "8:12 AM", page.MustElement(stage.Selector(domain.TargetTimeLabel)).MustText())

	require.NoError(t, stage.Apply(ctx, domain.Effect{Action: domain.ActionActivateOverlay, Target: domain.TargetOverlay}))
	assert.True(t, page.MustEval(`() => document.querySelector('[data-hero-target="scan-overlay"]').classList.contains('active')`).Bool())

	// message-result is not in the page.
	err := stage.Apply(ctx, domain.Effect{Action: domain.ActionRevealMessage, Target: domain.TargetResult, Text: "x"})
	assert.ErrorIs(t, err, domain.ErrTargetMissing)

	require.NoError(t, stage.Reset(ctx))
	assert.Equal(t, "8:11 AM", page.MustElement(stage.Selector(domain.TargetTimeLabel)).MustText())
	assert.False(t, page.MustEval(`() => document.querySelector('[data-hero-target="scan-overlay"]').classList.contains('active')`).Bool())
}
