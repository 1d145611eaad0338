package compile

import (
	"fmt"
	"strings"

	"github.com/dshills/diagc/pkg/component"
	"github.com/dshills/diagc/pkg/config"
	"github.com/dshills/diagc/pkg/diag"
	"github.com/dshills/diagc/pkg/ident"
	"github.com/dshills/diagc/pkg/lexer"
	"github.com/dshills/diagc/pkg/past"
	"github.com/dshills/diagc/pkg/semantic"
	"github.com/dshills/diagc/pkg/sequence"
)

// Describe runs source through the lexer, parser, elaborator, and
// structure builder, then renders a plain-text structural summary
// instead of laying out or rendering SVG: node/relation counts and
// containment depth for a component diagram, participant/event counts
// for a sequence diagram. Useful for a CLI's describe mode and for
// tests that want to assert structure without comparing full SVG
// output.
func Describe(source string, cfg *config.Config) (string, []*diag.Diagnostic, error) {
	toks, diags, ok := lexer.Lex(source)
	if !ok {
		return "", diags, nil
	}

	tree, diags, ok := past.Parse(toks)
	if !ok {
		return "", diags, nil
	}

	d, diags, ok := semantic.ElaborateWithConfig(tree, cfg)
	if !ok {
		return "", diags, nil
	}

	if d.Kind == semantic.SequenceDiagram {
		events, buildDiags, ok := sequence.Build(d)
		diags = append(diags, buildDiags...)
		if !ok {
			return "", diags, nil
		}
		return describeSequence(events), diags, nil
	}

	g, buildDiags, ok := component.Build(d)
	diags = append(diags, buildDiags...)
	if !ok {
		return "", diags, nil
	}
	return describeComponent(g), diags, nil
}

func describeComponent(g *component.Graph) string {
	var b strings.Builder
	b.WriteString("component diagram\n")

	scopes := g.ContainmentScopes()
	nodeCount, relationCount, noteCount, maxDepth := 0, 0, 0, 0
	for _, s := range scopes {
		key := scopeKeyOf(s)
		nodeCount += len(s.Nodes)
		relationCount += len(g.ScopeRelations(key))
		noteCount += len(g.ScopeNotes(key))
		if depth := scopeDepthOf(g, key) + 1; depth > maxDepth {
			maxDepth = depth
		}
	}

	fmt.Fprintf(&b, "  components: %d\n", nodeCount)
	fmt.Fprintf(&b, "  relations: %d\n", relationCount)
	fmt.Fprintf(&b, "  notes: %d\n", noteCount)
	fmt.Fprintf(&b, "  containment scopes: %d\n", len(scopes))
	fmt.Fprintf(&b, "  max containment depth: %d\n", maxDepth)
	return b.String()
}

func describeSequence(events []sequence.Event) string {
	var b strings.Builder
	b.WriteString("sequence diagram\n")

	participants, messages, activations, fragments, notes := 0, 0, 0, 0, 0
	for _, e := range events {
		switch e.(type) {
		case *sequence.ParticipantDecl:
			participants++
		case *sequence.Message:
			messages++
		case *sequence.Activate:
			activations++
		case *sequence.FragmentEnter:
			fragments++
		case *sequence.Note:
			notes++
		}
	}

	fmt.Fprintf(&b, "  participants: %d\n", participants)
	fmt.Fprintf(&b, "  messages: %d\n", messages)
	fmt.Fprintf(&b, "  activations: %d\n", activations)
	fmt.Fprintf(&b, "  fragments: %d\n", fragments)
	fmt.Fprintf(&b, "  notes: %d\n", notes)
	fmt.Fprintf(&b, "  events: %d\n", len(events))
	return b.String()
}

// scopeKeyOf recovers the key a Scope was registered under: the root
// scope has no container, and every non-root scope's container node
// carries it as ChildScopeKey.
func scopeKeyOf(s *component.Scope) ident.Id {
	if s.Container == nil || s.Container.ChildScopeKey == nil {
		return component.RootScopeKey()
	}
	return *s.Container.ChildScopeKey
}

// scopeDepthOf counts the number of ancestor scopes above key (0 for
// the root scope).
func scopeDepthOf(g *component.Graph, key ident.Id) int {
	depth := 0
	for {
		container := g.ScopeContainer(key)
		if container == nil {
			return depth
		}
		key = container.ScopeKey
		depth++
	}
}
