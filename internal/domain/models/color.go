package models

// Color is the marker color assigned by the classifier.
type Color string

const (
	ColorOrange Color = "orange" // customer in negotiation
	ColorGray   Color = "gray"   // ticket médio exactly zero
	ColorGreen  Color = "green"  // tier at or above target
	ColorRed    Color = "red"    // everything else
)

// Colors lists every color in rule priority order.
var Colors = []Color{ColorOrange, ColorGray, ColorGreen, ColorRed}

func (c Color) String() string { return string(c) }
