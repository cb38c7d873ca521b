// Package pagestate derives the workflow state of a page from its location
// and markup.
package pagestate

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/xkilldash9x/ghkey/api/schemas"
	"github.com/xkilldash9x/ghkey/internal/config"
)

// Classifier maps page snapshots onto States. It holds no mutable state and
// is safe for concurrent use.
type Classifier struct {
	root        string
	host        string
	loginPath   string
	sessionPath string
	devicePath  string
	keysPath    string
	errorBanner string
}

// NewClassifier builds a Classifier for the given service and locator table.
func NewClassifier(svc config.ServiceConfig, loc config.LocatorConfig) *Classifier {
	root := strings.TrimSuffix(svc.BaseURL, "/")
	c := &Classifier{
		root:        root,
		loginPath:   cleanPath(svc.LoginPath),
		sessionPath: cleanPath(svc.SessionPath),
		devicePath:  cleanPath(svc.DeviceVerificationPath),
		keysPath:    cleanPath(svc.KeysPath),
		errorBanner: loc.ErrorBanner,
	}
	if u, err := url.Parse(root); err == nil {
		c.host = strings.ToLower(u.Host)
	}
	return c
}

// Classify returns the State of the page described by snap. The result
// depends only on snap and the Classifier's configuration.
func (c *Classifier) Classify(snap schemas.PageSnapshot) State {
	if snap.URL == c.root || snap.URL == c.root+"/" {
		return HomePage
	}

	u, err := url.Parse(snap.URL)
	if err != nil || !strings.EqualFold(u.Host, c.host) {
		return Unknown
	}
	path := strings.TrimSuffix(u.Path, "/")

	switch {
	case path == "":
		// Root with a query string or fragment is not the bare home page.
		return Unknown
	case c.devicePath != "" && strings.HasSuffix(path, c.devicePath):
		return DeviceVerificationPage
	case c.keysPath != "" && strings.HasSuffix(path, c.keysPath):
		if c.hasErrorBanner(snap.HTML) {
			return SettingsKeysPageWithError
		}
		return SettingsKeysPage
	case path == c.loginPath || (c.sessionPath != "" && path == c.sessionPath):
		return LoginPage
	}
	return Unknown
}

func (c *Classifier) hasErrorBanner(html string) bool {
	if c.errorBanner == "" || html == "" {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	return doc.Find(c.errorBanner).Length() > 0
}

func cleanPath(p string) string {
	p = strings.TrimSuffix(p, "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
