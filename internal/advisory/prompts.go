package advisory

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"text/template"

	"github.com/Veraticus/compliance-sentinel/internal/model"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	behaviorTemplate   = "behavior"
	regulationTemplate = "regulation"
)

// PromptBuilder renders advisory prompts from the embedded templates.
type PromptBuilder struct {
	templates map[string]*template.Template
}

// NewPromptBuilder parses the embedded prompt templates.
func NewPromptBuilder() (*PromptBuilder, error) {
	pb := &PromptBuilder{
		templates: make(map[string]*template.Template),
	}

	funcMap := template.FuncMap{
		"formatAmount": formatAmount,
	}

	for _, name := range []string{behaviorTemplate, regulationTemplate} {
		filename := fmt.Sprintf("templates/%s.tmpl", name)
		tmpl, err := template.New(name + ".tmpl").Funcs(funcMap).ParseFS(templateFS, filename)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pb.templates[name] = tmpl
	}

	return pb, nil
}

// BehaviorData feeds the behavioral analysis prompt.
type BehaviorData struct {
	Transaction model.Transaction
	Customer    model.Customer
}

// RegulationData feeds the regulatory impact prompt.
type RegulationData struct {
	Rules string
	News  string
}

// BuildBehavior renders the Senior AML Officer prompt.
func (pb *PromptBuilder) BuildBehavior(data BehaviorData) (string, error) {
	return pb.execute(behaviorTemplate, data)
}

// BuildRegulation renders the Regulatory Analyst prompt.
func (pb *PromptBuilder) BuildRegulation(data RegulationData) (string, error) {
	return pb.execute(regulationTemplate, data)
}

func (pb *PromptBuilder) execute(name string, data any) (string, error) {
	tmpl, ok := pb.templates[name]
	if !ok {
		return "", fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// SnapshotRules renders rules as a column-aligned text table for prompts.
func SnapshotRules(rules []model.Rule) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "id\tcategory\trule_text\tlast_updated")
	for _, r := range rules {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.Category, r.Text, r.LastUpdated)
	}
	_ = w.Flush()
	return strings.TrimRight(buf.String(), "\n")
}

// formatAmount prints whole amounts without decimals and keeps cents otherwise.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
