package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the intercept ASCII art banner.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Sky-to-teal gradient
	s1 := termenv.String(`  _       _                          _   `).Foreground(p.Color("#38bdf8"))
	s2 := termenv.String(` (_)_ __ | |_ ___ _ __ ___ ___ _ __ | |_ `).Foreground(p.Color("#22d3ee"))
	s3 := termenv.String(` | | '_ \| __/ _ \ '__/ __/ _ \ '_ \| __|`).Foreground(p.Color("#2dd4bf"))
	s4 := termenv.String(` | | | | | ||  __/ | | (_|  __/ |_) | |_ `).Foreground(p.Color("#34d399"))
	s5 := termenv.String(` |_|_| |_|\__\___|_|  \___\___| .__/ \__|`).Foreground(p.Color("#4ade80"))
	s6 := termenv.String(`                              |_|        `).Foreground(p.Color("#a3e635"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println()
}
