//go:build !windows

package output

// enableANSI reports whether ANSI escape sequences can be used. Unix
// terminals handle them natively.
func enableANSI() bool {
	return true
}
