package refinement

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const (
	// QuestionCount is the number of clarifying questions in a question set.
	QuestionCount = 3
	// MinOptions and MaxOptions bound the options of a single question.
	MinOptions = 4
	MaxOptions = 5
	// SuggestionCount is the number of alternative phrasings returned.
	SuggestionCount = 3
)

// Question is a multiple-choice clarifying question.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type questionSet struct {
	Questions []Question `json:"questions"`
}

var numberedLine = regexp.MustCompile(`^\d+\.\s`)

// CleanJSON removes Markdown code fencing that models often wrap around JSON output.
func CleanJSON(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```JSON")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// ParseQuestions decodes a question set and checks that it has exactly
// QuestionCount questions with MinOptions to MaxOptions non-empty options each.
// A bare JSON array of questions is accepted as well as the wrapped object.
// All failures wrap ErrMalformedResponse.
func ParseQuestions(raw []byte) ([]Question, error) {
	cleaned := CleanJSON(string(raw))
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedResponse)
	}

	var questions []Question
	if strings.HasPrefix(cleaned, "[") {
		if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	} else {
		var set questionSet
		if err := json.Unmarshal([]byte(cleaned), &set); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		questions = set.Questions
	}

	if len(questions) != QuestionCount {
		return nil, fmt.Errorf("%w: expected %d questions, got %d",
			ErrMalformedResponse, QuestionCount, len(questions))
	}

	normalized := make([]Question, 0, len(questions))
	for i, q := range questions {
		text := strings.TrimSpace(q.Question)
		if text == "" {
			return nil, fmt.Errorf("%w: question %d has no text", ErrMalformedResponse, i)
		}
		if len(q.Options) < MinOptions || len(q.Options) > MaxOptions {
			return nil, fmt.Errorf("%w: question %d has %d options",
				ErrMalformedResponse, i, len(q.Options))
		}

		options := make([]string, 0, len(q.Options))
		for j, opt := range q.Options {
			opt = strings.TrimSpace(opt)
			if opt == "" {
				return nil, fmt.Errorf("%w: question %d option %d is empty",
					ErrMalformedResponse, i, j)
			}
			options = append(options, opt)
		}
		normalized = append(normalized, Question{Question: text, Options: options})
	}

	return normalized, nil
}

// ParseSuggestions extracts numbered list items ("1. ...") from text, strips
// the markers and returns at most SuggestionCount entries. Lines without a
// marker are ignored.
func ParseSuggestions(text string) []string {
	suggestions := make([]string, 0, SuggestionCount)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !numberedLine.MatchString(line) {
			continue
		}
		s := strings.TrimSpace(numberedLine.ReplaceAllString(line, ""))
		if s == "" {
			continue
		}
		suggestions = append(suggestions, s)
		if len(suggestions) == SuggestionCount {
			break
		}
	}
	return suggestions
}
