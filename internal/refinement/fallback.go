package refinement

import "fmt"

// FallbackQuestions returns the fixed question set used when the model is
// unavailable or its output cannot be parsed. Each call returns a fresh copy.
func FallbackQuestions() []Question {
	return []Question{
		{
			Question: "What is the main purpose of this prompt?",
			Options:  []string{"Information gathering", "Creative content", "Technical assistance", "Other"},
		},
		{
			Question: "What tone would you prefer?",
			Options:  []string{"Professional", "Casual", "Academic", "Conversational"},
		},
		{
			Question: "How detailed should the response be?",
			Options:  []string{"Brief overview", "Moderate detail", "Comprehensive", "Extremely detailed"},
		},
	}
}

// FallbackSuggestions returns the generic improvement hints used when the
// model fails to produce suggestions.
func FallbackSuggestions() []string {
	return []string{
		"Add more specific details about what you want",
		"Specify the format or structure you prefer",
		"Include any constraints or requirements",
	}
}

// LocalRefinement is the refinement returned when no provider is configured.
func LocalRefinement(userPrompt string) string {
	return fmt.Sprintf("Improved version of: %s\n\nPlease add your Gemini API key to enable AI-powered prompt refinement.", userPrompt)
}

// LocalSuggestions are the suggestions returned when no provider is configured.
func LocalSuggestions(userPrompt string) []string {
	return []string{
		userPrompt + " with more specific details",
		userPrompt + " with step-by-step instructions",
		userPrompt + " with examples included",
	}
}

// padSuggestions fills suggestions up to SuggestionCount with generic hints
// that are not already present.
func padSuggestions(suggestions []string) []string {
	seen := make(map[string]struct{}, len(suggestions))
	for _, s := range suggestions {
		seen[s] = struct{}{}
	}
	for _, hint := range FallbackSuggestions() {
		if len(suggestions) >= SuggestionCount {
			break
		}
		if _, ok := seen[hint]; ok {
			continue
		}
		suggestions = append(suggestions, hint)
	}
	return suggestions
}
