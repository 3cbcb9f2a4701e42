package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the murmur banner with the given version.
func PrintBanner(w io.Writer, version string) {
	PrintBannerWithProfile(w, version, termenv.ColorProfile())
}

// PrintBannerWithProfile writes the banner using an explicit color profile.
func PrintBannerWithProfile(w io.Writer, version string, p termenv.Profile) {
	lines := []struct {
		text  string
		color string
	}{
		{" _ __ ___  _   _ _ __ _ __ ___  _   _ _ __", "#818cf8"},
		{"| '_ ` _ \\| | | | '__| '_ ` _ \\| | | | '__|", "#a78bfa"},
		{"| | | | | | |_| | |  | | | | | | |_| | |", "#e879f9"},
		{"|_| |_| |_|\\__,_|_|  |_| |_| |_|\\__,_|_|", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, p.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
