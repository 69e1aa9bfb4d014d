package refinement

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var promptTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Answers maps a question index to the option the user selected.
type Answers map[int]string

// Values returns the non-blank answer values in ascending question-index order.
func (a Answers) Values() []string {
	if len(a) == 0 {
		return nil
	}

	keys := make([]int, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	values := make([]string, 0, len(keys))
	for _, k := range keys {
		if v := strings.TrimSpace(a[k]); v != "" {
			values = append(values, v)
		}
	}
	return values
}

type templateData struct {
	Prompt  string
	Answers []string
}

// BuildRefinementPrompt builds the instruction asking the model to rewrite
// userPrompt, listing any answers the user supplied to clarifying questions.
func BuildRefinementPrompt(userPrompt string, answers Answers) string {
	return render("refine.tmpl", templateData{Prompt: userPrompt, Answers: answers.Values()})
}

// BuildQuestionsPrompt builds the instruction asking the model for three
// multiple-choice clarifying questions as JSON.
func BuildQuestionsPrompt(userPrompt string) string {
	return render("questions.tmpl", templateData{Prompt: userPrompt})
}

// BuildSuggestionsPrompt builds the instruction asking the model for three
// numbered alternative phrasings.
func BuildSuggestionsPrompt(userPrompt string) string {
	return render("suggestions.tmpl", templateData{Prompt: userPrompt})
}

// render executes one of the embedded templates. The templates are parsed at
// init and only reference fields of templateData, so execution cannot fail
// on valid input.
func render(name string, data templateData) string {
	var buf bytes.Buffer
	if err := promptTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		panic(fmt.Sprintf("refinement: executing template %s: %v", name, err))
	}
	return strings.TrimSpace(buf.String())
}
