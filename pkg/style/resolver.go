package style

import (
	"fmt"
	"math"
	"strings"

	"github.com/dshills/diagc/pkg/config"
	"github.com/dshills/diagc/pkg/diag"
	"github.com/dshills/diagc/pkg/geom"
	"github.com/dshills/diagc/pkg/ident"
	"github.com/dshills/diagc/pkg/past"
)

// Resolver holds the HashMap<Id, TypeDefinition> of §4.3, seeded with
// the built-in prototypes and growing with every user `type` decl and
// every anonymous derived definition produced along the way.
type Resolver struct {
	defs     map[ident.Id]Definition
	anon     int
	errs     *diag.Collector
	palettes map[string]config.Palette
}

// NewResolver returns a Resolver seeded with the built-in prototypes,
// reporting into errs (the same collector the elaborator uses, since
// resolution errors are fail-fast elaboration errors, not a separate
// recovering pass). It carries no named palettes; see
// NewResolverWithPalettes for a Resolver that resolves `palette="..."`
// attributes (§4.3.1's supplemented feature).
func NewResolver(errs *diag.Collector) *Resolver {
	return NewResolverWithPalettes(errs, nil)
}

// NewResolverWithPalettes is NewResolver plus a named-palette table
// (typically config.Config.Palettes) that Shape/Arrow/Note type-specs
// can pull a fill_color/stroke bundle from via `palette="name"`.
func NewResolverWithPalettes(errs *diag.Collector, palettes map[string]config.Palette) *Resolver {
	defs := make(map[ident.Id]Definition)
	for name, def := range builtinDefs() {
		defs[ident.Id(name)] = def
	}
	return &Resolver{defs: defs, errs: errs, palettes: palettes}
}

func (r *Resolver) nextAnon() ident.Id {
	id := ident.FromAnonymous(r.anon)
	r.anon++
	return id
}

// DeclareType installs a user `type Name = spec;` definition in the
// table (elaborator step 1, §4.4). defaultName is the base to use if
// spec itself has no name (rare, but syntactically legal).
func (r *Resolver) DeclareType(name past.Ident, spec *past.TypeSpec, defaultName ident.Id) bool {
	id := ident.Id(name.Name)
	if _, exists := r.defs[id]; exists {
		r.errs.Error(diag.ECodeDuplicateType, name.Span, fmt.Sprintf("type %q is already defined", name.Name))
		return false
	}
	def, ok := r.Resolve(spec, defaultName)
	if !ok {
		return false
	}
	r.defs[id] = def
	return true
}

// Resolve implements §4.3's resolve(type_spec) -> TypeDefinition.
// defaultName supplies the base type to use when spec.Name is nil (a
// purely attribute-only type-spec, e.g. a component written as
// `a: [fill_color="red"];`).
func (r *Resolver) Resolve(spec *past.TypeSpec, defaultName ident.Id) (Definition, bool) {
	base, ok := r.lookupNamed(spec.Name, defaultName, spec.Span)
	if !ok {
		return nil, false
	}
	if len(spec.Attrs) == 0 {
		// §8: applying an empty attribute list returns the same
		// prototype reference — no cloning.
		return base, true
	}
	derived := base.clone()
	if !r.applyAttributes(derived, spec.Attrs) {
		return nil, false
	}
	r.defs[r.nextAnon()] = derived
	return derived, true
}

func (r *Resolver) lookupNamed(name *past.Ident, defaultName ident.Id, span diag.Span) (Definition, bool) {
	id := defaultName
	if name != nil {
		id = ident.Id(name.Name)
		span = name.Span
	}
	def, ok := r.defs[id]
	if !ok {
		r.errs.Error(diag.ECodeUndefinedType, span, fmt.Sprintf("undefined type %q", id))
		return nil, false
	}
	return def, true
}

// resolveNestedSlot resolves an attribute whose value is itself a
// type-spec (e.g. `stroke=[color="red"]`) against the expected family
// wantFamily, per §4.3.2: a nameless nested spec inherits from
// currentSlot (the prototype's existing value for that slot) rather
// than any top-level default.
func (r *Resolver) resolveNestedSlot(spec *past.TypeSpec, currentSlot Definition, wantFamily Family) (Definition, bool) {
	var base Definition
	if spec.Name != nil {
		id := ident.Id(spec.Name.Name)
		d, ok := r.defs[id]
		if !ok {
			r.errs.Error(diag.ECodeUndefinedType, spec.Name.Span, fmt.Sprintf("undefined type %q", spec.Name.Name))
			return nil, false
		}
		if d.Family() != wantFamily {
			r.errs.Error(diag.ECodeWrongFamily, spec.Name.Span,
				fmt.Sprintf("expected a %s type, found %s %q", wantFamily, d.Family(), spec.Name.Name))
			return nil, false
		}
		base = d
	} else {
		if currentSlot == nil {
			r.errs.Error(diag.ECodeUndefinedType, spec.Span, "no current value to inherit attributes from")
			return nil, false
		}
		base = currentSlot
	}
	if len(spec.Attrs) == 0 {
		return base, true
	}
	derived := base.clone()
	if !r.applyAttributes(derived, spec.Attrs) {
		return nil, false
	}
	r.defs[r.nextAnon()] = derived
	return derived, true
}

// applyAttributes applies every attr in spec order, except that any
// `palette` attribute is applied first regardless of its position in
// the list: §4.3.1 gives a resolved palette bundle the same standing
// as an inherited default, so an explicit attribute anywhere in the
// list still overrides it (the single-level override semantics of
// §3.5 apply transitively).
func (r *Resolver) applyAttributes(def Definition, attrs []past.Attr) bool {
	for _, attr := range attrs {
		if attr.Name.Name != "palette" {
			continue
		}
		if !r.applyPalette(def, attr) {
			return false
		}
	}
	for _, attr := range attrs {
		if attr.Name.Name == "palette" {
			continue
		}
		if !r.applyAttribute(def, attr) {
			return false
		}
	}
	return true
}

// applyPalette resolves a `palette="name"` attribute against r's
// palette table, seeding fill_color/stroke fields on the Shape/Arrow/
// Note families that support it (§4.3.1, SUPPLEMENTED FEATURES #1).
func (r *Resolver) applyPalette(def Definition, attr past.Attr) bool {
	name, ok := tagText(attr.Value)
	if !ok {
		return r.invalidValue(attr, "a palette name")
	}
	bundle, ok := r.palettes[name]
	if !ok {
		return r.invalidValue(attr, fmt.Sprintf("a defined palette name (got %q)", name))
	}
	switch d := def.(type) {
	case *ShapeDef:
		if bundle.FillColor != nil {
			d.FillColor = bundle.FillColor
		}
		if bundle.Stroke != nil {
			d.Stroke = strokeWithColor(d.Stroke, *bundle.Stroke)
		}
	case *ArrowDef:
		if bundle.Stroke != nil {
			d.Stroke = strokeWithColor(d.Stroke, *bundle.Stroke)
		}
	case *NoteDef:
		if bundle.FillColor != nil {
			d.BackgroundColor = bundle.FillColor
		}
		if bundle.Stroke != nil {
			d.Stroke = strokeWithColor(d.Stroke, *bundle.Stroke)
		}
	default:
		return r.unknownAttr(def.Family(), attr)
	}
	return true
}

// strokeWithColor clones current (or starts from a zero StrokeDef) and
// overwrites its color, leaving width/style/cap/join untouched.
func strokeWithColor(current *StrokeDef, color string) *StrokeDef {
	var s StrokeDef
	if current != nil {
		s = *current
	}
	s.Color = color
	return &s
}

// applyAttribute validates attr against def's family-specific attribute
// table (§4.3.1) and mutates the already-cloned def in place.
func (r *Resolver) applyAttribute(def Definition, attr past.Attr) bool {
	switch d := def.(type) {
	case *ShapeDef:
		return r.applyShapeAttr(d, attr)
	case *ArrowDef:
		return r.applyArrowAttr(d, attr)
	case *StrokeDef:
		return r.applyStrokeAttr(d, attr)
	case *TextDef:
		return r.applyTextAttr(d, attr)
	case *LifelineDef:
		return r.applyLifelineAttr(d, attr)
	case *ActivationBoxDef:
		return r.applyActivationBoxAttr(d, attr)
	case *FragmentDef:
		return r.applyFragmentAttr(d, attr)
	case *NoteDef:
		return r.applyNoteAttr(d, attr)
	default:
		r.errs.Error(diag.ECodeUnknownAttribute, attr.Span, fmt.Sprintf("unrecognized prototype family for attribute %q", attr.Name.Name))
		return false
	}
}

func (r *Resolver) unknownAttr(family Family, attr past.Attr) bool {
	r.errs.Error(diag.ECodeUnknownAttribute, attr.Name.Span,
		fmt.Sprintf("%q is not a valid attribute for %s", attr.Name.Name, family))
	return false
}

func (r *Resolver) invalidValue(attr past.Attr, want string) bool {
	r.errs.Error(diag.ECodeInvalidAttributeValue, attr.Value.Span,
		fmt.Sprintf("invalid value for %q: expected %s", attr.Name.Name, want))
	return false
}

func (r *Resolver) asString(attr past.Attr) (string, bool) {
	if attr.Value.Kind != past.AttrString {
		r.invalidValue(attr, "a string")
		return "", false
	}
	return attr.Value.Str, true
}

func (r *Resolver) asFloat(attr past.Attr) (float64, bool) {
	if attr.Value.Kind != past.AttrFloat {
		r.invalidValue(attr, "a number")
		return 0, false
	}
	return attr.Value.Float, true
}

func (r *Resolver) asNonNegFloat(attr past.Attr) (float64, bool) {
	v, ok := r.asFloat(attr)
	if !ok {
		return 0, false
	}
	if v < 0 {
		return 0, r.invalidValue(attr, "a non-negative number")
	}
	return v, true
}

func (r *Resolver) asNonNegInt(attr past.Attr) (int, bool) {
	v, ok := r.asNonNegFloat(attr)
	if !ok {
		return 0, false
	}
	if math.Trunc(v) != v {
		return 0, r.invalidValue(attr, "a non-negative integer")
	}
	return int(v), true
}

func (r *Resolver) asPositiveInt(attr past.Attr) (int, bool) {
	v, ok := r.asNonNegInt(attr)
	if !ok {
		return 0, false
	}
	if v <= 0 {
		return 0, r.invalidValue(attr, "a positive integer")
	}
	return v, true
}

func (r *Resolver) asTypeSpec(attr past.Attr) (*past.TypeSpec, bool) {
	if attr.Value.Kind != past.AttrTypeSpec {
		r.invalidValue(attr, "a type spec")
		return nil, false
	}
	return attr.Value.TypeSpec, true
}

// tagText extracts a bare tag name from an attr-value written either as
// a string literal ("straight") or a bare, attribute-less identifier
// (straight) — the grammar's attr-value allows both shapes for what is
// conceptually an enum tag.
func tagText(v past.AttrValue) (string, bool) {
	switch v.Kind {
	case past.AttrString:
		return v.Str, true
	case past.AttrTypeSpec:
		if v.TypeSpec.Name != nil && len(v.TypeSpec.Attrs) == 0 {
			return v.TypeSpec.Name.Name, true
		}
	}
	return "", false
}

func (r *Resolver) applyShapeAttr(d *ShapeDef, attr past.Attr) bool {
	switch attr.Name.Name {
	case "fill_color":
		s, ok := r.asString(attr)
		if !ok {
			return false
		}
		d.FillColor = &s
	case "stroke":
		spec, ok := r.asTypeSpec(attr)
		if !ok {
			return false
		}
		resolved, ok := r.resolveNestedSlot(spec, d.Stroke, FamilyStroke)
		if !ok {
			return false
		}
		d.Stroke = resolved.(*StrokeDef)
	case "rounded":
		v, ok := r.asNonNegInt(attr)
		if !ok {
			return false
		}
		d.Rounded = v
	case "text":
		spec, ok := r.asTypeSpec(attr)
		if !ok {
			return false
		}
		resolved, ok := r.resolveNestedSlot(spec, d.Text, FamilyText)
		if !ok {
			return false
		}
		d.Text = resolved.(*TextDef)
	default:
		return r.unknownAttr(FamilyShape, attr)
	}
	return true
}

func (r *Resolver) applyArrowAttr(d *ArrowDef, attr past.Attr) bool {
	switch attr.Name.Name {
	case "stroke":
		spec, ok := r.asTypeSpec(attr)
		if !ok {
			return false
		}
		resolved, ok := r.resolveNestedSlot(spec, d.Stroke, FamilyStroke)
		if !ok {
			return false
		}
		d.Stroke = resolved.(*StrokeDef)
	case "style":
		tag, ok := tagText(attr.Value)
		if !ok {
			return r.invalidValue(attr, `"straight", "curved", or "orthogonal"`)
		}
		switch strings.ToLower(tag) {
		case "straight":
			d.Style = ArrowStraight
		case "curved":
			d.Style = ArrowCurved
		case "orthogonal":
			d.Style = ArrowOrthogonal
		default:
			return r.invalidValue(attr, `"straight", "curved", or "orthogonal"`)
		}
	case "text":
		spec, ok := r.asTypeSpec(attr)
		if !ok {
			return false
		}
		resolved, ok := r.resolveNestedSlot(spec, d.Text, FamilyText)
		if !ok {
			return false
		}
		d.Text = resolved.(*TextDef)
	default:
		return r.unknownAttr(FamilyArrow, attr)
	}
	return true
}

func (r *Resolver) applyStrokeAttr(d *StrokeDef, attr past.Attr) bool {
	switch attr.Name.Name {
	case "color":
		s, ok := r.asString(attr)
		if !ok {
			return false
		}
		d.Color = s
	case "width":
		v, ok := r.asNonNegFloat(attr)
		if !ok {
			return false
		}
		d.Width = v
	case "style":
		tag, ok := tagText(attr.Value)
		if !ok {
			return r.invalidValue(attr, "a dash style name or CSV dasharray")
		}
		switch strings.ToLower(tag) {
		case "solid":
			d.Style = StrokeSolid
		case "dashed":
			d.Style = StrokeDashed
		case "dotted":
			d.Style = StrokeDotted
		case "dashdot":
			d.Style = StrokeDashDot
		case "dashdotdot":
			d.Style = StrokeDashDotDot
		default:
			d.Style = StrokeCustom
			d.Pattern = tag
		}
	case "cap":
		tag, ok := tagText(attr.Value)
		if !ok {
			return r.invalidValue(attr, `"butt", "round", or "square"`)
		}
		switch strings.ToLower(tag) {
		case "butt":
			d.Cap = CapButt
		case "round":
			d.Cap = CapRound
		case "square":
			d.Cap = CapSquare
		default:
			return r.invalidValue(attr, `"butt", "round", or "square"`)
		}
	case "join":
		tag, ok := tagText(attr.Value)
		if !ok {
			return r.invalidValue(attr, `"miter", "round", or "bevel"`)
		}
		switch strings.ToLower(tag) {
		case "miter":
			d.Join = JoinMiter
		case "round":
			d.Join = JoinRound
		case "bevel":
			d.Join = JoinBevel
		default:
			return r.invalidValue(attr, `"miter", "round", or "bevel"`)
		}
	default:
		return r.unknownAttr(FamilyStroke, attr)
	}
	return true
}

func (r *Resolver) applyTextAttr(d *TextDef, attr past.Attr) bool {
	switch attr.Name.Name {
	case "font_size":
		v, ok := r.asPositiveInt(attr)
		if !ok {
			return false
		}
		d.FontSize = v
	case "font_family":
		s, ok := r.asString(attr)
		if !ok {
			return false
		}
		d.FontFamily = s
	case "color":
		s, ok := r.asString(attr)
		if !ok {
			return false
		}
		d.Color = &s
	case "background_color":
		s, ok := r.asString(attr)
		if !ok {
			return false
		}
		d.BackgroundColor = &s
	case "padding":
		v, ok := r.asNonNegFloat(attr)
		if !ok {
			return false
		}
		d.Padding = geom.Uniform(v)
	default:
		return r.unknownAttr(FamilyText, attr)
	}
	return true
}

func (r *Resolver) applyLifelineAttr(d *LifelineDef, attr past.Attr) bool {
	switch attr.Name.Name {
	case "stroke":
		spec, ok := r.asTypeSpec(attr)
		if !ok {
			return false
		}
		resolved, ok := r.resolveNestedSlot(spec, d.Stroke, FamilyStroke)
		if !ok {
			return false
		}
		d.Stroke = resolved.(*StrokeDef)
	default:
		return r.unknownAttr(FamilyLifeline, attr)
	}
	return true
}

func (r *Resolver) applyActivationBoxAttr(d *ActivationBoxDef, attr past.Attr) bool {
	switch attr.Name.Name {
	case "width":
		v, ok := r.asNonNegFloat(attr)
		if !ok {
			return false
		}
		d.Width = v
	case "nesting_offset":
		v, ok := r.asNonNegFloat(attr)
		if !ok {
			return false
		}
		d.NestingOffset = v
	case "fill_color":
		s, ok := r.asString(attr)
		if !ok {
			return false
		}
		d.FillColor = s
	case "stroke":
		spec, ok := r.asTypeSpec(attr)
		if !ok {
			return false
		}
		resolved, ok := r.resolveNestedSlot(spec, d.Stroke, FamilyStroke)
		if !ok {
			return false
		}
		d.Stroke = resolved.(*StrokeDef)
	default:
		return r.unknownAttr(FamilyActivationBox, attr)
	}
	return true
}

func (r *Resolver) applyFragmentAttr(d *FragmentDef, attr past.Attr) bool {
	switch attr.Name.Name {
	case "border_stroke":
		spec, ok := r.asTypeSpec(attr)
		if !ok {
			return false
		}
		resolved, ok := r.resolveNestedSlot(spec, d.BorderStroke, FamilyStroke)
		if !ok {
			return false
		}
		d.BorderStroke = resolved.(*StrokeDef)
	case "separator_stroke":
		spec, ok := r.asTypeSpec(attr)
		if !ok {
			return false
		}
		resolved, ok := r.resolveNestedSlot(spec, d.SeparatorStroke, FamilyStroke)
		if !ok {
			return false
		}
		d.SeparatorStroke = resolved.(*StrokeDef)
	case "background_color":
		s, ok := r.asString(attr)
		if !ok {
			return false
		}
		d.BackgroundColor = &s
	case "content_padding":
		v, ok := r.asNonNegFloat(attr)
		if !ok {
			return false
		}
		d.ContentPadding = geom.Uniform(v)
	case "operation_label_text":
		spec, ok := r.asTypeSpec(attr)
		if !ok {
			return false
		}
		resolved, ok := r.resolveNestedSlot(spec, d.OperationLabelText, FamilyText)
		if !ok {
			return false
		}
		d.OperationLabelText = resolved.(*TextDef)
	case "section_title_text":
		spec, ok := r.asTypeSpec(attr)
		if !ok {
			return false
		}
		resolved, ok := r.resolveNestedSlot(spec, d.SectionTitleText, FamilyText)
		if !ok {
			return false
		}
		d.SectionTitleText = resolved.(*TextDef)
	default:
		return r.unknownAttr(FamilyFragment, attr)
	}
	return true
}

func (r *Resolver) applyNoteAttr(d *NoteDef, attr past.Attr) bool {
	switch attr.Name.Name {
	case "background_color":
		s, ok := r.asString(attr)
		if !ok {
			return false
		}
		d.BackgroundColor = &s
	case "stroke":
		spec, ok := r.asTypeSpec(attr)
		if !ok {
			return false
		}
		resolved, ok := r.resolveNestedSlot(spec, d.Stroke, FamilyStroke)
		if !ok {
			return false
		}
		d.Stroke = resolved.(*StrokeDef)
	case "text":
		spec, ok := r.asTypeSpec(attr)
		if !ok {
			return false
		}
		resolved, ok := r.resolveNestedSlot(spec, d.Text, FamilyText)
		if !ok {
			return false
		}
		d.Text = resolved.(*TextDef)
	case "on", "align":
		// Valid here syntactically, but consumed by the elaborator for
		// note positioning (§4.3.1) — not stored on the prototype.
	default:
		return r.unknownAttr(FamilyNote, attr)
	}
	return true
}
