// Package render prints assistant answers and extraction failures for the
// commands, as styled text or as JSON/YAML.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/vishnuvardhanreddy31/research-agent/extract"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultWidth is the wrap width of text output.
const DefaultWidth = 80

// ParseFormat validates s as a Format. An empty string selects text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q; valid values: text, json, yaml", s)
	}
}

// Renderer writes answers to w.
type Renderer struct {
	w      io.Writer
	format Format
	width  int

	label   lipgloss.Style
	bullet  lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

// New creates a Renderer. Colors are used only when w is a terminal.
func New(w io.Writer, format Format) *Renderer {
	re := lipgloss.NewRenderer(w)
	return &Renderer{
		w:       w,
		format:  format,
		width:   DefaultWidth,
		label:   re.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		bullet:  re.NewStyle().Foreground(lipgloss.Color("205")),
		failure: re.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF0000")),
		muted:   re.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// WithWidth sets the wrap width of text output. Values below 20 are ignored.
func (r *Renderer) WithWidth(width int) *Renderer {
	if width >= 20 {
		r.width = width
	}
	return r
}

// Answer prints a successfully extracted value.
func (r *Renderer) Answer(v any) error {
	switch r.format {
	case FormatJSON:
		return r.writeJSON(v)
	case FormatYAML:
		return r.writeYAML(v)
	default:
		return r.writeText(v)
	}
}

// failureReport is the machine-readable form of an extraction failure.
type failureReport struct {
	Kind  string `json:"kind" yaml:"kind"`
	Error string `json:"error" yaml:"error"`
	Raw   string `json:"raw" yaml:"raw"`
}

// Failure prints an extraction failure: its kind, the underlying error and the
// complete raw model output.
func (r *Renderer) Failure(err *extract.Error) error {
	report := failureReport{Kind: err.Kind.String(), Error: err.Message(), Raw: err.Raw}

	switch r.format {
	case FormatJSON:
		return r.writeJSON(report)
	case FormatYAML:
		return r.writeYAML(report)
	}

	var sb strings.Builder
	sb.WriteString(r.failure.Render("Could not parse the response: " + report.Kind))
	sb.WriteString("\n")
	sb.WriteString(r.label.Render("Error:"))
	sb.WriteString(" ")
	sb.WriteString(report.Error)
	sb.WriteString("\n")
	sb.WriteString(r.label.Render("Raw output:"))
	sb.WriteString("\n")
	sb.WriteString(report.Raw)
	sb.WriteString("\n")
	_, werr := io.WriteString(r.w, sb.String())
	return werr
}

// Tools prints the tools used during a run, one per line, muted.
func (r *Renderer) Tools(names []string) error {
	if r.format != FormatText || len(names) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(r.w, r.muted.Render("Tools invoked: "+strings.Join(names, ", ")))
	return err
}

func (r *Renderer) writeJSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (r *Renderer) writeYAML(v any) error {
	node, err := toNode(v)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return err
	}
	return enc.Close()
}

// writeText prints each top-level field as a label followed by its wrapped,
// indented value. Lists become bullets.
func (r *Renderer) writeText(v any) error {
	node, err := toNode(v)
	if err != nil {
		return err
	}
	if node.Kind != yaml.MappingNode {
		_, err := fmt.Fprintln(r.w, r.wrap(node.Value, 0))
		return err
	}

	var sb strings.Builder
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		sb.WriteString(r.label.Render(label(key.Value) + ":"))
		sb.WriteString("\n")

		switch value.Kind {
		case yaml.SequenceNode:
			if len(value.Content) == 0 {
				sb.WriteString(indent.String(r.muted.Render("(none)"), 2))
				sb.WriteString("\n")
			}
			for _, item := range value.Content {
				text := r.wrap(scalarText(item), 4)
				sb.WriteString("  ")
				sb.WriteString(r.bullet.Render("-"))
				sb.WriteString(" ")
				sb.WriteString(strings.TrimLeft(text, " "))
				sb.WriteString("\n")
			}
		default:
			sb.WriteString(r.wrap(scalarText(value), 2))
			sb.WriteString("\n")
		}
	}
	_, err = io.WriteString(r.w, sb.String())
	return err
}

// wrap word-wraps s to the renderer width and indents every line by n spaces.
func (r *Renderer) wrap(s string, n uint) string {
	return indent.String(wordwrap.String(s, r.width-int(n)), n)
}

// toNode converts v to a YAML node through its JSON encoding, so keys follow
// json tags and struct field order.
func toNode(v any) (*yaml.Node, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("render: encode: %w", err)
	}
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("render: decode: %w", err)
	}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) == 1 {
		node := doc.Content[0]
		clearStyle(node)
		return node, nil
	}
	return &doc, nil
}

// clearStyle drops the flow style inherited from JSON so YAML output is block
// style.
func clearStyle(n *yaml.Node) {
	n.Style &^= yaml.FlowStyle | yaml.DoubleQuotedStyle
	for _, c := range n.Content {
		clearStyle(c)
	}
}

func scalarText(n *yaml.Node) string {
	if n.Kind == yaml.ScalarNode {
		return n.Value
	}
	out, err := yaml.Marshal(n)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// label turns a json key like "tools_used" into "Tools used".
func label(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
