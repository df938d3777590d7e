package prompt

import (
	"github.com/tmc/langchaingo/llms"
)

// Build returns the two turns sent for a query: the role's system prompt
// followed by the user's text. input is passed through untouched.
func Build(role Role, input string) []llms.MessageContent {
	return []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, role.SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, input),
	}
}

// Compose resolves label through the registry and builds the turns.
func Compose(label, input string) []llms.MessageContent {
	return Build(ResolveRole(label), input)
}
