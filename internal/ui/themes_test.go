package ui

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withTheme(t *testing.T, th Theme) {
	t.Helper()
	prev := GetCurrentTheme()
	prevNoColor := color.NoColor
	SetCurrentTheme(th)
	t.Cleanup(func() {
		SetCurrentTheme(prev)
		color.NoColor = prevNoColor
	})
}

func TestSetThemeByName(t *testing.T) {
	withTheme(t, DarkTheme)

	for name, want := range map[string]string{
		"light":   "light",
		"none":    "none",
		"dark":    "dark",
		"unknown": "dark",
	} {
		SetTheme(name)
		if got := GetCurrentTheme().Name; got != want {
			t.Errorf("SetTheme(%q): active theme %q, want %q", name, got, want)
		}
	}
}

func TestPlainThemePassesThrough(t *testing.T) {
	withTheme(t, PlainTheme)

	got := GetCurrentTheme().Success("F(%d)", 42)
	if got != "F(42)" {
		t.Errorf("plain styler altered text: %q", got)
	}
	if strings.Contains(got, "\033[") {
		t.Errorf("plain styler emitted escape codes: %q", got)
	}
}

func TestInitThemeNoColorFlag(t *testing.T) {
	withTheme(t, DarkTheme)

	InitTheme(true)
	if GetCurrentTheme().Name != "none" {
		t.Errorf("InitTheme(true) left theme %q", GetCurrentTheme().Name)
	}
	if !color.NoColor {
		t.Error("InitTheme(true) should disable fatih/color")
	}
}

func TestInitThemeHonorsNoColorEnv(t *testing.T) {
	withTheme(t, DarkTheme)
	t.Setenv("NO_COLOR", "1")

	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Errorf("NO_COLOR set but theme is %q", GetCurrentTheme().Name)
	}
}

func TestPaletteDisabledWhenNoColor(t *testing.T) {
	withTheme(t, PlainTheme)

	color.NoColor = true
	p := Palette{}
	if p.Yellow() != "" || p.Reset() != "" {
		t.Error("palette should emit nothing when colors are off")
	}

	color.NoColor = false
	if p.Yellow() == "" || p.Reset() == "" {
		t.Error("palette should emit escape codes when colors are on")
	}
}
