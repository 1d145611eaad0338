package style

import (
	"testing"

	"github.com/dshills/diagc/pkg/config"
	"github.com/dshills/diagc/pkg/diag"
	"github.com/dshills/diagc/pkg/ident"
	"github.com/dshills/diagc/pkg/past"
)

func strAttr(name, value string) past.Attr {
	return past.Attr{
		Name:  past.Ident{Name: name},
		Value: past.AttrValue{Kind: past.AttrString, Str: value},
	}
}

func floatAttr(name string, value float64) past.Attr {
	return past.Attr{
		Name:  past.Ident{Name: name},
		Value: past.AttrValue{Kind: past.AttrFloat, Float: value},
	}
}

func typeSpecAttr(name string, spec *past.TypeSpec) past.Attr {
	return past.Attr{
		Name:  past.Ident{Name: name},
		Value: past.AttrValue{Kind: past.AttrTypeSpec, TypeSpec: spec},
	}
}

func namedSpec(name string) *past.TypeSpec {
	id := past.Ident{Name: name}
	return &past.TypeSpec{Name: &id}
}

func TestResolveEmptyAttrsReturnsSameReference(t *testing.T) {
	errs := diag.NewCollector()
	r := NewResolver(errs)
	def1, ok := r.Resolve(namedSpec("Rectangle"), "Rectangle")
	if !ok {
		t.Fatalf("unexpected failure")
	}
	def2, ok := r.Resolve(namedSpec("Rectangle"), "Rectangle")
	if !ok {
		t.Fatalf("unexpected failure")
	}
	if def1 != def2 {
		t.Fatalf("expected the same shared reference for an attribute-less type-spec")
	}
}

func TestResolveUndefinedTypeReportsE300(t *testing.T) {
	errs := diag.NewCollector()
	r := NewResolver(errs)
	_, ok := r.Resolve(namedSpec("Nonesuch"), "Rectangle")
	if ok {
		t.Fatalf("expected failure")
	}
	diags, ok := errs.Finish()
	if ok {
		t.Fatalf("expected the collector to have an error")
	}
	if len(diags) != 1 || *diags[0].Code != diag.ECodeUndefinedType {
		t.Fatalf("expected a single E300, got %v", diags)
	}
}

func TestResolveDerivesAnonymousPrototypeWithOverride(t *testing.T) {
	errs := diag.NewCollector()
	r := NewResolver(errs)
	spec := namedSpec("Rectangle")
	spec.Attrs = []past.Attr{strAttr("fill_color", "lightblue"), floatAttr("rounded", 10)}
	def, ok := r.Resolve(spec, "Rectangle")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", errs.Diagnostics())
	}
	shape, ok := def.(*ShapeDef)
	if !ok {
		t.Fatalf("expected *ShapeDef, got %T", def)
	}
	if shape.FillColor == nil || *shape.FillColor != "lightblue" {
		t.Errorf("got fill color %v", shape.FillColor)
	}
	if shape.Rounded != 10 {
		t.Errorf("got rounded %d", shape.Rounded)
	}

	base, _ := r.Resolve(namedSpec("Rectangle"), "Rectangle")
	baseShape := base.(*ShapeDef)
	if baseShape.FillColor != nil {
		t.Errorf("the built-in Rectangle must be unaffected by deriving from it, got %v", baseShape.FillColor)
	}
}

func TestResolveRejectsNegativeRounded(t *testing.T) {
	errs := diag.NewCollector()
	r := NewResolver(errs)
	spec := namedSpec("Rectangle")
	spec.Attrs = []past.Attr{floatAttr("rounded", -1)}
	_, ok := r.Resolve(spec, "Rectangle")
	if ok {
		t.Fatalf("expected failure for a negative rounded value")
	}
	diags, _ := errs.Finish()
	if len(diags) != 1 || *diags[0].Code != diag.ECodeInvalidAttributeValue {
		t.Fatalf("expected E302, got %v", diags)
	}
}

func TestResolveUnknownAttributeReportsE303(t *testing.T) {
	errs := diag.NewCollector()
	r := NewResolver(errs)
	spec := namedSpec("Rectangle")
	spec.Attrs = []past.Attr{strAttr("bogus", "nope")}
	_, ok := r.Resolve(spec, "Rectangle")
	if ok {
		t.Fatalf("expected failure for an unknown attribute")
	}
	diags, _ := errs.Finish()
	if len(diags) != 1 || *diags[0].Code != diag.ECodeUnknownAttribute {
		t.Fatalf("expected E303, got %v", diags)
	}
}

func TestResolveWrongFamilyReportsE307(t *testing.T) {
	errs := diag.NewCollector()
	r := NewResolver(errs)
	spec := namedSpec("Rectangle")
	// "stroke" must resolve to a Stroke-family type; naming a Shape type
	// instead should be rejected.
	spec.Attrs = []past.Attr{typeSpecAttr("stroke", namedSpec("Rectangle"))}
	_, ok := r.Resolve(spec, "Rectangle")
	if ok {
		t.Fatalf("expected failure for a wrong-family nested type")
	}
	diags, _ := errs.Finish()
	if len(diags) != 1 || *diags[0].Code != diag.ECodeWrongFamily {
		t.Fatalf("expected E307, got %v", diags)
	}
}

func TestResolveNestedAttrInheritsCurrentSlot(t *testing.T) {
	errs := diag.NewCollector()
	r := NewResolver(errs)
	spec := namedSpec("Rectangle")
	nestedStroke := &past.TypeSpec{Attrs: []past.Attr{strAttr("color", "red")}}
	spec.Attrs = []past.Attr{typeSpecAttr("stroke", nestedStroke)}
	def, ok := r.Resolve(spec, "Rectangle")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", errs.Diagnostics())
	}
	shape := def.(*ShapeDef)
	if shape.Stroke.Color != "red" {
		t.Errorf("got stroke color %q", shape.Stroke.Color)
	}
	// Width was not mentioned, so it should carry over from the default
	// stroke rather than reset to a zero value.
	if shape.Stroke.Width != 1 {
		t.Errorf("expected inherited width 1, got %v", shape.Stroke.Width)
	}
}

// A content-free shape's "text" attribute styles its label (§4.9's
// BelowShape strategy for Actor/Control/Interface); only nested content
// under such a shape is rejected (E308), which is covered at the
// elaborator level where that nested block is actually seen.
func TestResolveTextOnContentFreeShapeSucceeds(t *testing.T) {
	errs := diag.NewCollector()
	r := NewResolver(errs)
	spec := namedSpec("Actor")
	spec.Attrs = []past.Attr{typeSpecAttr("text", &past.TypeSpec{Attrs: []past.Attr{strAttr("font_family", "serif")}})}
	def, ok := r.Resolve(spec, "Rectangle")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", errs.Diagnostics())
	}
	shape := def.(*ShapeDef)
	if shape.Text == nil || shape.Text.FontFamily != "serif" {
		t.Fatalf("expected the actor's text prototype to carry font_family serif, got %+v", shape.Text)
	}
}

func TestDeclareTypeDetectsDuplicate(t *testing.T) {
	errs := diag.NewCollector()
	r := NewResolver(errs)
	name := past.Ident{Name: "Db"}
	ok := r.DeclareType(name, namedSpec("Rectangle"), "Rectangle")
	if !ok {
		t.Fatalf("unexpected failure declaring Db")
	}
	ok = r.DeclareType(name, namedSpec("Rectangle"), "Rectangle")
	if ok {
		t.Fatalf("expected failure re-declaring Db")
	}
	diags, _ := errs.Finish()
	found := false
	for _, d := range diags {
		if d.Code != nil && *d.Code == diag.ECodeDuplicateType {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected E301 among diagnostics, got %v", diags)
	}
}

func TestDeclaredTypeIsUsableAsABase(t *testing.T) {
	errs := diag.NewCollector()
	r := NewResolver(errs)
	dbSpec := namedSpec("Rectangle")
	dbSpec.Attrs = []past.Attr{strAttr("fill_color", "lightblue"), floatAttr("rounded", 10)}
	if ok := r.DeclareType(past.Ident{Name: "Db"}, dbSpec, "Rectangle"); !ok {
		t.Fatalf("unexpected diagnostics: %v", errs.Diagnostics())
	}
	def, ok := r.Resolve(namedSpec("Db"), "Rectangle")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", errs.Diagnostics())
	}
	shape := def.(*ShapeDef)
	if shape.FillColor == nil || *shape.FillColor != "lightblue" || shape.Rounded != 10 {
		t.Fatalf("expected Db's resolved shape to carry its declared attrs, got %+v", shape)
	}
}

func TestResolveUsesDefaultNameWhenSpecHasNoName(t *testing.T) {
	errs := diag.NewCollector()
	r := NewResolver(errs)
	spec := &past.TypeSpec{Attrs: []past.Attr{strAttr("fill_color", "red")}}
	def, ok := r.Resolve(spec, ident.Id("Rectangle"))
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", errs.Diagnostics())
	}
	shape := def.(*ShapeDef)
	if shape.FillColor == nil || *shape.FillColor != "red" {
		t.Fatalf("expected the nameless spec to derive from the supplied default, got %+v", shape)
	}
}

func oceanPalette() map[string]config.Palette {
	fill, stroke := "#d6ecf5", "#1f6f8b"
	return map[string]config.Palette{"ocean": {FillColor: &fill, Stroke: &stroke}}
}

func TestResolvePaletteSeedsFillColorAndStroke(t *testing.T) {
	errs := diag.NewCollector()
	r := NewResolverWithPalettes(errs, oceanPalette())
	spec := namedSpec("Rectangle")
	spec.Attrs = []past.Attr{strAttr("palette", "ocean")}
	def, ok := r.Resolve(spec, "Rectangle")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", errs.Diagnostics())
	}
	shape := def.(*ShapeDef)
	if shape.FillColor == nil || *shape.FillColor != "#d6ecf5" {
		t.Fatalf("expected the ocean palette's fill_color, got %+v", shape.FillColor)
	}
	if shape.Stroke == nil || shape.Stroke.Color != "#1f6f8b" {
		t.Fatalf("expected the ocean palette's stroke color, got %+v", shape.Stroke)
	}
}

func TestResolvePaletteIsOverriddenByExplicitAttribute(t *testing.T) {
	errs := diag.NewCollector()
	r := NewResolverWithPalettes(errs, oceanPalette())
	spec := namedSpec("Rectangle")
	// palette listed first, but an explicit fill_color anywhere in the
	// list still wins (§3.5's single-level override semantics).
	spec.Attrs = []past.Attr{strAttr("palette", "ocean"), strAttr("fill_color", "crimson")}
	def, ok := r.Resolve(spec, "Rectangle")
	if !ok {
		t.Fatalf("unexpected diagnostics: %v", errs.Diagnostics())
	}
	shape := def.(*ShapeDef)
	if shape.FillColor == nil || *shape.FillColor != "crimson" {
		t.Fatalf("expected the explicit fill_color to override the palette, got %+v", shape.FillColor)
	}
}

func TestResolveUndefinedPaletteReportsInvalidAttributeValue(t *testing.T) {
	errs := diag.NewCollector()
	r := NewResolverWithPalettes(errs, oceanPalette())
	spec := namedSpec("Rectangle")
	spec.Attrs = []past.Attr{strAttr("palette", "nonesuch")}
	_, ok := r.Resolve(spec, "Rectangle")
	if ok {
		t.Fatalf("expected failure for an undefined palette name")
	}
	diags, ok := errs.Finish()
	if ok {
		t.Fatalf("expected the collector to have an error")
	}
	if len(diags) != 1 || *diags[0].Code != diag.ECodeInvalidAttributeValue {
		t.Fatalf("expected a single E302, got %v", diags)
	}
}

func TestResolvePaletteRejectedOnUnsupportedFamily(t *testing.T) {
	errs := diag.NewCollector()
	r := NewResolverWithPalettes(errs, oceanPalette())
	spec := namedSpec("Lifeline")
	spec.Attrs = []past.Attr{strAttr("palette", "ocean")}
	_, ok := r.Resolve(spec, "Lifeline")
	if ok {
		t.Fatalf("expected failure: Lifeline does not support palette")
	}
}
