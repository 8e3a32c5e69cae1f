// Package pages holds the page objects for the customer portal: element
// locators and the UI operations scenarios perform on them.
package pages

import (
	"fmt"
	"strings"

	"github.com/portalqa/portal-bdd/webdriver"
)

const (
	upperAlpha = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerAlpha = "abcdefghijklmnopqrstuvwxyz"
)

// Literal quotes s as an XPath 1.0 string literal. Strings containing both
// quote kinds are built with concat().
func Literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, 2*len(parts)-1)
	for i, part := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if part != "" {
			quoted = append(quoted, "'"+part+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// TextIs locates tag elements whose normalized text equals text.
func TextIs(tag, text string) webdriver.Locator {
	return webdriver.XPath(fmt.Sprintf("//%s[normalize-space()=%s]", tag, Literal(strings.TrimSpace(text))))
}

// AnyTextIs locates any element whose normalized text equals text.
func AnyTextIs(text string) webdriver.Locator {
	return webdriver.XPath(fmt.Sprintf("//*[normalize-space(.)=%s]", Literal(strings.TrimSpace(text))))
}

// AnyTextIsFold is AnyTextIs ignoring ASCII case.
func AnyTextIsFold(text string) webdriver.Locator {
	return webdriver.XPath(fmt.Sprintf("//*[translate(normalize-space(.), '%s', '%s')=translate(%s, '%s', '%s')]",
		upperAlpha, lowerAlpha, Literal(strings.TrimSpace(text)), upperAlpha, lowerAlpha))
}

// ContainsFold locates any element whose normalized text contains the
// lowercase needle, ignoring ASCII case.
func ContainsFold(needle string) webdriver.Locator {
	return webdriver.XPath(fmt.Sprintf("//*[contains(translate(normalize-space(.), '%s', '%s'), %s)]",
		upperAlpha, lowerAlpha, Literal(strings.ToLower(needle))))
}
