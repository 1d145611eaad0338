package style

import "github.com/dshills/diagc/pkg/geom"

func defaultStroke() *StrokeDef {
	return &StrokeDef{Color: "black", Width: 1, Style: StrokeSolid, Cap: CapButt, Join: JoinMiter}
}

func defaultText() *TextDef {
	return &TextDef{FontFamily: "sans-serif", FontSize: 14, Padding: geom.Insets{Top: 2, Right: 4, Bottom: 2, Left: 4}}
}

func defaultShape(kind ShapeKind) *ShapeDef {
	return &ShapeDef{
		Kind:            kind,
		Stroke:          defaultStroke(),
		Text:            defaultText(),
		SupportsContent: supportsContentByKind(kind),
	}
}

// builtinDefs returns the seed definitions installed in every Resolver,
// per §4.3's built-in list: "Rectangle, Oval, Component, Boundary,
// Actor, Entity, Control, Interface, Arrow, Stroke, Text, Fragment,
// Note, Activate, Lifeline".
func builtinDefs() map[string]Definition {
	m := map[string]Definition{
		"Rectangle": defaultShape(ShapeRectangle),
		"Oval":      defaultShape(ShapeOval),
		"Component": defaultShape(ShapeComponent),
		"Boundary":  defaultShape(ShapeBoundary),
		"Actor":     defaultShape(ShapeActor),
		"Entity":    defaultShape(ShapeEntity),
		"Control":   defaultShape(ShapeControl),
		"Interface": defaultShape(ShapeInterface),
		"Stroke":    defaultStroke(),
		"Text":      defaultText(),
		"Arrow": &ArrowDef{
			Stroke: defaultStroke(),
			Style:  ArrowStraight,
			Text:   defaultText(),
		},
		"Fragment": &FragmentDef{
			BorderStroke:       defaultStroke(),
			SeparatorStroke:    defaultStroke(),
			ContentPadding:     geom.Insets{Top: 8, Right: 8, Bottom: 8, Left: 8},
			OperationLabelText: defaultText(),
			SectionTitleText:   defaultText(),
		},
		"Note": &NoteDef{
			Stroke: defaultStroke(),
			Text:   defaultText(),
		},
		"Activate": &ActivationBoxDef{
			FillColor:     "white",
			Stroke:        defaultStroke(),
			Width:         10,
			NestingOffset: 6,
		},
		"Lifeline": &LifelineDef{
			Stroke: &StrokeDef{Color: "black", Width: 1, Style: StrokeDashed, Cap: CapButt, Join: JoinMiter},
		},
	}
	return m
}
