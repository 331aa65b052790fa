// Package utils provides small shared helpers, currently opening URLs in
// the system browser.
package utils
