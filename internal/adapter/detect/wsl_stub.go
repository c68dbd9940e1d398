//go:build !windows

package detect

import "context"

// DetectWSL returns nil on non-Windows hosts; WSL is a Windows feature.
func DetectWSL(ctx context.Context) []string {
	return nil
}
