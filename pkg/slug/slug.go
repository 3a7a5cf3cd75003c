// Package slug derives stable entity identifiers from display names.
package slug

import "strings"

// Make lower-cases name and collapses every run of non-alphanumeric
// characters into a single underscore. The result is stable for a given
// name and is used as the store's primary key. It is not guaranteed
// collision-free across distinct names.
func Make(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			if b.Len() > 0 {
				pendingSep = true
			}
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
