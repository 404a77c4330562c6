package colors

// CityPalette holds the display colors for the three city slots.
var CityPalette = [3]Color4{
	MustHex("#ff7a45"),
	MustHex("#36cfc9"),
	MustHex("#9254de"),
}

// Theme is the light/dark color set for decorative sky geometry.
type Theme struct {
	Horizon    Color4 `json:"horizon"`
	Ring       Color4 `json:"ring"`
	Tick       Color4 `json:"tick"`
	Label      Color4 `json:"label"`
	Background Color4 `json:"background"`
}

func LightTheme() Theme {
	return Theme{
		Horizon:    MustHex("#dfe6ee").WithAlpha(0.55),
		Ring:       MustHex("#8c99a6"),
		Tick:       MustHex("#5b6773"),
		Label:      MustHex("#28313b"),
		Background: MustHex("#f5f7fa"),
	}
}

func DarkTheme() Theme {
	return Theme{
		Horizon:    MustHex("#1c2430").WithAlpha(0.6),
		Ring:       MustHex("#4a5a6b"),
		Tick:       MustHex("#7d8a97"),
		Label:      MustHex("#d6dde5"),
		Background: MustHex("#0d1117"),
	}
}

func ThemeFor(dark bool) Theme {
	if dark {
		return DarkTheme()
	}
	return LightTheme()
}
