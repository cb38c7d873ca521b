// internal/browser/session/options.go
package session

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chromedp/chromedp"

	"github.com/xkilldash9x/ghkey/api/schemas"
	"github.com/xkilldash9x/ghkey/internal/config"
)

// allocatorFlags computes the Chrome command line flags for cfg on top of
// chromedp's defaults. A false value removes a default flag.
func allocatorFlags(cfg config.BrowserConfig, persona schemas.Persona) map[string]interface{} {
	flags := map[string]interface{}{
		// Container friendliness.
		"no-sandbox":             true,
		"disable-dev-shm-usage":  true,
		"enable-automation":      false,
		"disable-blink-features": "AutomationControlled",
		"headless":               cfg.Headless,
		"hide-scrollbars":        cfg.Headless,
		"mute-audio":             cfg.Headless,
	}
	if persona.UserAgent != "" {
		flags["user-agent"] = persona.UserAgent
	}
	if persona.Width > 0 && persona.Height > 0 {
		flags["window-size"] = fmt.Sprintf("%d,%d", persona.Width, persona.Height)
	}
	if cfg.IgnoreTLSErrors {
		flags["ignore-certificate-errors"] = true
		flags["allow-insecure-localhost"] = true
	}

	// Extra args from config, "--name" or "--name=value".
	for _, arg := range cfg.Args {
		arg = strings.TrimPrefix(strings.TrimSpace(arg), "--")
		if arg == "" {
			continue
		}
		if key, value, ok := strings.Cut(arg, "="); ok {
			flags[key] = value
			continue
		}
		flags[arg] = true
	}
	return flags
}

// AllocatorOptions translates the browser config into chromedp allocator options.
func AllocatorOptions(cfg config.BrowserConfig, persona schemas.Persona) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)

	flags := allocatorFlags(cfg, persona)
	names := make([]string, 0, len(flags))
	for name := range flags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		opts = append(opts, chromedp.Flag(name, flags[name]))
	}
	return opts
}

// PersonaFor derives the persona the browser presents from the config.
func PersonaFor(cfg config.BrowserConfig) schemas.Persona {
	p := schemas.DefaultPersona
	if cfg.UserAgent != "" {
		p.UserAgent = cfg.UserAgent
	}
	if w, ok := cfg.Viewport["width"]; ok && w > 0 {
		p.Width = int64(w)
	}
	if h, ok := cfg.Viewport["height"]; ok && h > 0 {
		p.Height = int64(h)
	}
	return p
}
