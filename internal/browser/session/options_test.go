// internal/browser/session/options_test.go
package session

import (
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/ghkey/api/schemas"
	"github.com/xkilldash9x/ghkey/internal/config"
)

func TestAllocatorFlags(t *testing.T) {
	persona := schemas.DefaultPersona

	t.Run("Defaults", func(t *testing.T) {
		flags := allocatorFlags(config.BrowserConfig{Headless: true}, persona)

		assert.Equal(t, false, flags["enable-automation"])
		assert.Equal(t, "AutomationControlled", flags["disable-blink-features"])
		assert.Equal(t, true, flags["headless"])
		assert.Equal(t, true, flags["no-sandbox"])
		assert.Equal(t, persona.UserAgent, flags["user-agent"])
		assert.Equal(t, "1920,1080", flags["window-size"])
		assert.NotContains(t, flags, "ignore-certificate-errors")
	})

	t.Run("HeadfulRemovesHeadless", func(t *testing.T) {
		flags := allocatorFlags(config.BrowserConfig{Headless: false}, persona)
		assert.Equal(t, false, flags["headless"])
	})

	t.Run("IgnoreTLSErrors", func(t *testing.T) {
		flags := allocatorFlags(config.BrowserConfig{IgnoreTLSErrors: true}, persona)
		assert.Equal(t, true, flags["ignore-certificate-errors"])
		assert.Equal(t, true, flags["allow-insecure-localhost"])
	})

	t.Run("CustomArgs", func(t *testing.T) {
		cfg := config.BrowserConfig{Args: []string{"--custom-arg1", "lang=de-DE", "  ", "--proxy-server=socks5://127.0.0.1:9050"}}
		flags := allocatorFlags(cfg, persona)
		assert.Equal(t, true, flags["custom-arg1"])
		assert.Equal(t, "de-DE", flags["lang"])
		assert.Equal(t, "socks5://127.0.0.1:9050", flags["proxy-server"])
		assert.NotContains(t, flags, "")
	})

	t.Run("ArgsOverrideDefaults", func(t *testing.T) {
		cfg := config.BrowserConfig{Args: []string{"--disable-blink-features=Foo"}}
		assert.Equal(t, "Foo", allocatorFlags(cfg, persona)["disable-blink-features"])
	})
}

func TestAllocatorOptions(t *testing.T) {
	opts := AllocatorOptions(config.BrowserConfig{Headless: true}, schemas.DefaultPersona)
	flags := allocatorFlags(config.BrowserConfig{Headless: true}, schemas.DefaultPersona)
	assert.Len(t, opts, len(flags)+len(chromedp.DefaultExecAllocatorOptions))
}

func TestPersonaFor(t *testing.T) {
	cfg := config.BrowserConfig{
		UserAgent: "custom-agent",
		Viewport:  map[string]int{"width": 1366, "height": 768},
	}
	p := PersonaFor(cfg)
	assert.Equal(t, "custom-agent", p.UserAgent)
	assert.Equal(t, int64(1366), p.Width)
	assert.Equal(t, int64(768), p.Height)
	assert.Equal(t, schemas.DefaultPersona.Platform, p.Platform)

	p = PersonaFor(config.BrowserConfig{})
	assert.Equal(t, schemas.DefaultPersona, p)
}
