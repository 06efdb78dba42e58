package tutor

import (
	"fmt"
)

// FallbackPhrase is what the model must say when the pages do not contain the answer.
const FallbackPhrase = "I can't find this in the provided pages."

// SystemPrompt sets the tutor persona and the grounding rules.
const SystemPrompt = "You are a patient, friendly tutor for school students (elementary to high school). " +
	"Answer as simply as possible using ONLY the provided text (which includes the selected page plus its neighbors). " +
	"If the answer is not in the provided text, say: '" + FallbackPhrase + "' " +
	"Prefer bullet points, short sentences, and clear examples. Avoid jargon."

// Rules are repeated at the end of every user message.
var Rules = []string{
	"Use ONLY the text above.",
	"Keep it simple for a school student.",
	"Use bullets or short steps when helpful.",
	"If info is missing, say you can't find it in the provided pages.",
}

// Prompt is the message pair sent to the chat model.
type Prompt struct {
	System string
	User   string
}

// Compose builds the prompt for a question about contextText.
// The context is embedded verbatim; long pages are not truncated here.
func Compose(contextText, question string) Prompt {
	user := fmt.Sprintf("Context (selected page with ±1 neighbors):\n---\n%s\n---\n\n", contextText)
	user += fmt.Sprintf("Student request: %s\n\n", question)
	user += "Rules:"
	for i, r := range Rules {
		user += fmt.Sprintf("\n%d) %s", i+1, r)
	}

	return Prompt{
		System: SystemPrompt,
		User:   user,
	}
}
