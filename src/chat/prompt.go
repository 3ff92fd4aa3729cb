package chat

import (
	"fmt"

	"github.com/openai/openai-go/v3"

	"github.com/apimgr/hey/src/config"
)

// Role tags a prompt message
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// ContextPreface is prepended to every search snippet sent as context
const ContextPreface = "Use the following search result as context when answering: "

// Message is one entry of the prompt
type Message struct {
	Role    Role
	Content string
}

// SystemPrompt returns the system message text for cfg.
func SystemPrompt(cfg *config.Config) string {
	return fmt.Sprintf(
		"You are %s, a %s assistant talking to %s in a terminal. "+
			"Answer the question directly and concisely. "+
			"When the provided context is relevant, base your answer on it.",
		cfg.BotName, cfg.Tone, cfg.UserName)
}

// BuildMessages returns the prompt for one query: the system message, one
// user message per snippet and finally the raw query, in that order.
func BuildMessages(cfg *config.Config, userInput string, snippets []string) []Message {
	msgs := make([]Message, 0, len(snippets)+2)
	msgs = append(msgs, Message{Role: RoleSystem, Content: SystemPrompt(cfg)})
	for _, s := range snippets {
		msgs = append(msgs, Message{Role: RoleUser, Content: ContextPreface + s})
	}
	msgs = append(msgs, Message{Role: RoleUser, Content: userInput})
	return msgs
}

func toParams(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
