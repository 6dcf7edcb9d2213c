package ui

import (
	"github.com/pterm/pterm"

	"github.com/ayoisaiah/dayplan/internal/models"
)

var DarkTheme = true

func Green(a any) string {
	if DarkTheme {
		return pterm.LightGreen(a)
	}

	return pterm.Green(a)
}

func Cyan(a any) string {
	if DarkTheme {
		return pterm.LightCyan(a)
	}

	return pterm.Cyan(a)
}

func Magenta(a any) string {
	if DarkTheme {
		return pterm.LightMagenta(a)
	}

	return pterm.Magenta(a)
}

func Blue(a any) string {
	if DarkTheme {
		return pterm.LightBlue(a)
	}

	return pterm.Blue(a)
}

func Red(a any) string {
	if DarkTheme {
		return pterm.LightRed(a)
	}

	return pterm.Red(a)
}

func Yellow(a any) string {
	if DarkTheme {
		return pterm.LightYellow(a)
	}

	return pterm.Yellow(a)
}

func Highlight(a any) string {
	if DarkTheme {
		return pterm.LightWhite(a)
	}

	return pterm.Black(a)
}

// Category renders a category name in its display color.
func Category(c models.Category) string {
	switch c {
	case models.Work:
		return Blue(c)
	case models.Personal:
		return Magenta(c)
	case models.Sleep:
		return Cyan(c)
	case models.Exercise:
		return Green(c)
	case models.Meal:
		return Yellow(c)
	case models.Learning:
		return Red(c)
	case models.Break:
		return Highlight(c)
	default:
		return pterm.Gray(c)
	}
}
