// Package enrich derives visit metadata that is not supplied by the caller:
// browser/OS/device from the User-Agent header, geography from the client IP,
// and the session identifier from the tracking cookie.
package enrich

import (
	"portfolio-backend/model"

	"github.com/mileusna/useragent"
)

const unknown = "Unknown"

// ParseUserAgent extracts browser, OS and device class from a user-agent
// string. Fields the parser cannot determine come back as "Unknown"; a parsed
// agent with no recognizable device class counts as desktop.
func ParseUserAgent(uaString string) (model.BrowserInfo, model.OSInfo, string) {
	if uaString == "" || uaString == unknown {
		return model.BrowserInfo{Name: unknown, Version: unknown},
			model.OSInfo{Name: unknown, Version: unknown},
			model.DeviceUnknown
	}

	ua := useragent.Parse(uaString)

	browser := model.BrowserInfo{Name: ua.Name, Version: ua.Version}
	if browser.Name == "" {
		browser.Name = unknown
	}
	if browser.Version == "" {
		browser.Version = unknown
	}

	os := model.OSInfo{Name: ua.OS, Version: ua.OSVersion}
	if os.Name == "" {
		os.Name = unknown
	}
	if os.Version == "" {
		os.Version = unknown
	}

	var device string
	switch {
	case ua.Mobile:
		device = model.DeviceMobile
	case ua.Tablet:
		device = model.DeviceTablet
	default:
		device = model.DeviceDesktop
	}

	return browser, os, device
}
