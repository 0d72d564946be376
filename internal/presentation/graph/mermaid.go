package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/keypad/internal/runtime"
	"github.com/aretw0/keypad/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	// Visited lists states the calculator passed through, oldest first.
	Visited []domain.StateKind
	Current domain.StateKind
}

// GenerateMermaid produces a Mermaid state diagram from the transition table.
// Parallel edges between the same pair of states are merged into one labelled arrow.
// It applies the overlay styles (Visited/Current) if provided.
func GenerateMermaid(edges []runtime.Edge, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, kind := range domain.Kinds() {
		opener, closer := "[", "]"
		switch kind {
		case domain.KindInitial:
			opener, closer = "((", "))"
		case domain.KindError:
			opener, closer = "{{", "}}"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", mermaidID(kind), opener, kind, closer)
	}

	type pair struct{ from, to domain.StateKind }
	var order []pair
	labels := make(map[pair][]string)
	for _, e := range edges {
		p := pair{e.From, e.To}
		if _, seen := labels[p]; !seen {
			order = append(order, p)
		}
		labels[p] = append(labels[p], string(e.Trigger))
	}
	for _, p := range order {
		arrow := fmt.Sprintf("-- \"%s\" -->", strings.Join(labels[p], ", "))
		if p.to == domain.KindError || p.from == domain.KindError {
			arrow = fmt.Sprintf("-. \"%s\" .->", strings.Join(labels[p], ", "))
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", mermaidID(p.from), arrow, mermaidID(p.to))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast on either theme.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.StateKind]bool)
		for _, kind := range overlay.Visited {
			if !kind.Valid() || seen[kind] || kind == overlay.Current {
				continue
			}
			seen[kind] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", mermaidID(kind))
		}
		if overlay.Current.Valid() {
			fmt.Fprintf(&sb, "    class %s current;\n", mermaidID(overlay.Current))
		}
	}

	return sb.String()
}

// mermaidID avoids Mermaid reserved words such as "end" by prefixing every id.
func mermaidID(kind domain.StateKind) string {
	return "s_" + string(kind)
}
