package ai

import (
	"fmt"
	"strings"
)

const answerFormatInstruction = `Respond with a single JSON object and nothing else, using these keys:
"answer": the full, detailed answer.
"summary": a one or two sentence summary of the answer, or an empty string.
"image_query": two or three English words naming an image that would illustrate the answer, or an empty string.`

const englishPersona = "You are a medical expert with access to all volumes of the Gale Encyclopedia. " +
	"Answer the user's medical question based on the information in the Gale Encyclopedia. " +
	"Use the conversation history to understand the context of the question."

const multiLanguagePersona = "You are a medical expert with access to all volumes of the Gale Encyclopedia. " +
	"The user is asking a medical question in %s. Provide a comprehensive answer based on the information " +
	"in the Gale Encyclopedia; if it is relevant, you may suggest potential medicines. " +
	"Your entire response, including the summary, must be written in %s. " +
	"Use the conversation history to understand the context of the question."

// BuildMedicalPrompt assembles the message list sent to the model: persona
// and output-format system message, prior user/assistant turns, then the
// current question. languageLabel is the human-readable language name; empty
// means English.
func BuildMedicalPrompt(question, languageLabel string, history []ChatMessage) []ChatMessage {
	persona := englishPersona
	if languageLabel != "" && !strings.EqualFold(languageLabel, "english") {
		persona = fmt.Sprintf(multiLanguagePersona, languageLabel, languageLabel)
	}

	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{
		Role:    "system",
		Content: persona + "\n\n" + answerFormatInstruction,
	})
	for _, turn := range history {
		if turn.Role != "user" && turn.Role != "assistant" {
			continue
		}
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		messages = append(messages, ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, ChatMessage{Role: "user", Content: strings.TrimSpace(question)})
	return messages
}
