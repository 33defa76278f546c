// Package template performs placeholder substitution on the configured
// window init command text.
package template

import "strings"

// Placeholder is the token replaced by the create command's trailing
// arguments.
const Placeholder = "@@args"

// Render replaces every Placeholder occurrence with extraArgs, or with
// the empty string when no arguments were given. It is a pure string
// substitution: no recursion, no quoting; the text is handed to the
// shell exactly as configured.
func Render(text, extraArgs string) string {
	return strings.ReplaceAll(text, Placeholder, extraArgs)
}
