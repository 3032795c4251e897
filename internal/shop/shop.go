// Package shop holds the storefront contact details shown on public pages.
package shop

import "strings"

type Info struct {
	Name     string
	Area     string
	Phone    string
	WhatsApp string // international number without "+", e.g. 919876543210
}

// WhatsAppURL is the click-to-chat link for the shop number, or "" when unset.
func (i Info) WhatsAppURL() string {
	n := strings.TrimPrefix(strings.TrimSpace(i.WhatsApp), "+")
	if n == "" {
		return ""
	}
	return "https://wa.me/" + n
}
