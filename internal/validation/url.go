package validation

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// URLValidator checks URLs the client either requests (the API endpoint) or
// hands to an external program (cover images).
type URLValidator struct {
	// AllowLocalhost determines if localhost URLs are permitted
	AllowLocalhost bool
	// AllowPrivateIPs determines if private IP addresses are permitted
	AllowPrivateIPs bool
	// RequireScheme rejects input without an explicit http(s) scheme instead
	// of defaulting it to https.
	RequireScheme bool
	// MaxLength is the maximum allowed URL length
	MaxLength int
}

// NewEndpointValidator accepts self-hosted API endpoints, including localhost
// and private networks. A missing scheme defaults to https.
func NewEndpointValidator() *URLValidator {
	return &URLValidator{
		AllowLocalhost:  true,
		AllowPrivateIPs: true,
		MaxLength:       2048,
	}
}

// NewImageValidator accepts only absolute public http(s) URLs.
func NewImageValidator() *URLValidator {
	return &URLValidator{
		RequireScheme: true,
		MaxLength:     2048,
	}
}

// ValidateAndNormalize validates input and returns the normalized URL.
func (v *URLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	if !hasHTTPScheme(input) {
		if v.RequireScheme {
			return "", fmt.Errorf("URL must be absolute with http or https scheme")
		}
		if strings.Contains(input, "://") {
			return "", fmt.Errorf("URL must use http or https protocol")
		}
		input = "https://" + input
	}

	parsedURL, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if parsedURL.Host == "" || parsedURL.Hostname() == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}

	if err := v.validateHost(parsedURL.Hostname()); err != nil {
		return "", err
	}

	if strings.Contains(parsedURL.Path, "..") {
		return "", fmt.Errorf("directory traversal patterns not allowed in URL path")
	}

	return parsedURL.String(), nil
}

// Valid reports whether input passes validation.
func (v *URLValidator) Valid(input string) bool {
	_, err := v.ValidateAndNormalize(input)
	return err == nil
}

func hasHTTPScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func (v *URLValidator) validateHost(hostname string) error {
	if !v.AllowLocalhost && isLocalhost(hostname) {
		return fmt.Errorf("localhost URLs are not permitted")
	}

	if !v.AllowPrivateIPs {
		if ip := net.ParseIP(hostname); ip != nil && isPrivateIP(ip) {
			return fmt.Errorf("private IP addresses are not permitted")
		}
	}

	if hostname == "0.0.0.0" || hostname == "255.255.255.255" {
		return fmt.Errorf("unroutable hostname")
	}

	return nil
}

func isLocalhost(hostname string) bool {
	hostname = strings.ToLower(hostname)
	return hostname == "localhost" ||
		hostname == "::1" ||
		strings.HasPrefix(hostname, "127.") ||
		strings.HasSuffix(hostname, ".localhost")
}

func isPrivateIP(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}
