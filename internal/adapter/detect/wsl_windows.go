//go:build windows

package detect

import (
	"context"
	"os/exec"
	"strings"
	"time"
	"unicode/utf16"
)

// DetectWSL lists installed WSL distros. wsl.exe emits UTF-16LE.
func DetectWSL(ctx context.Context) []string {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "wsl.exe", "--list", "--quiet").Output()
	if err != nil {
		return nil
	}

	var distros []string
	for _, line := range strings.Split(decodeUTF16(out), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			distros = append(distros, name)
		}
	}
	return distros
}

func decodeUTF16(b []byte) string {
	if len(b) < 2 {
		return string(b)
	}
	u := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u = append(u, uint16(b[i])|uint16(b[i+1])<<8)
	}
	return string(utf16.Decode(u))
}
