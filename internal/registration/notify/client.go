package notify

import (
	"strings"

	"github.com/mssola/useragent"
)

// DescribeClient condenses a User-Agent header into "Browser 120 on OS".
// An empty header yields "".
func DescribeClient(userAgent string) string {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return ""
	}
	ua := useragent.New(userAgent)

	browser, version := ua.Browser()
	if browser == "" {
		browser = "Unknown browser"
	} else if major, _, _ := strings.Cut(version, "."); major != "" {
		browser += " " + major
	}

	platform := ua.OS()
	if platform == "" {
		platform = ua.Platform()
	}
	if platform == "" {
		platform = "unknown OS"
	}
	if ua.Bot() {
		platform += " (bot)"
	}
	return strings.TrimSpace(browser + " on " + platform)
}
