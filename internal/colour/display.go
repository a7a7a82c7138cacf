package colour

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayName returns a colour keyword formatted for tables, e.g.
// "darkslategray" becomes "Darkslategray".
func DisplayName(name string) string {
	// A Caser holds state, so each call gets its own.
	return cases.Title(language.English).String(name)
}

// DisplayHex returns hex in upper case for tables, e.g. "#FF8000".
func DisplayHex(hex string) string {
	return strings.ToUpper(hex)
}
