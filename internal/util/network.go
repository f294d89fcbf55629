// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// MaxLinkURLLength is the maximum allowed length for an external link.
const MaxLinkURLLength = 2048

// ClientIP returns the address of the requesting client without its port.
// It relies on chi's RealIP middleware to have already rewritten RemoteAddr
// from X-Real-IP or X-Forwarded-For when running behind a proxy.
func ClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// ValidateLinkURL checks that rawURL is an absolute http or https URL with a host.
func ValidateLinkURL(rawURL string) error {
	if len(rawURL) > MaxLinkURLLength {
		return fmt.Errorf("URL exceeds maximum length of %d characters", MaxLinkURLLength)
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("URL must use http or https scheme")
	}

	if parsedURL.Hostname() == "" {
		return fmt.Errorf("URL must have a hostname")
	}

	return nil
}
