package app

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"medilexica/internal/ai"
	"medilexica/internal/model"
	"medilexica/internal/pkg/logx"
)

var (
	ErrQuestionEmpty       = errors.New("question is empty")
	ErrLanguageUnsupported = errors.New("language is not supported")
	ErrAnswerUnavailable   = errors.New("the medical assistant could not produce an answer, please try again")
)

// Answer is the result of one question turn. Summary is present for
// non-English answers; ImageQuery and ImageURL are present when the model
// suggested an illustration.
type Answer struct {
	Text       string `json:"answer"`
	Summary    string `json:"summary,omitempty"`
	ImageQuery string `json:"image_query,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}

type ImageSearcher interface {
	Search(ctx context.Context, query string) (string, error)
}

type LLMCompleter interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

// AnswerService wraps the answer-generation collaborator. It is stateless
// and side-effect free from the caller's point of view, so a failed call is
// always safe to retry.
type AnswerService struct {
	llmClient LLMCompleter
	llmConfig ai.ChatConfig
	images    ImageSearcher
}

func NewAnswerService(llmClient LLMCompleter, llmConfig ai.ChatConfig, images ImageSearcher) *AnswerService {
	return &AnswerService{
		llmClient: llmClient,
		llmConfig: llmConfig,
		images:    images,
	}
}

// Ask answers a medical question, in the requested language, using the prior
// turns for context. Image lookup is best-effort and never fails the answer.
func (s *AnswerService) Ask(ctx context.Context, question, language string, history []model.ChatMessage) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrQuestionEmpty
	}
	if language == "" {
		language = DefaultLanguage
	}
	label, ok := languageLabel(language)
	if !ok {
		return nil, ErrLanguageUnsupported
	}
	if language == DefaultLanguage {
		// English skips the translation persona entirely.
		label = ""
	}

	prompt := ai.BuildMedicalPrompt(question, label, toPromptMessages(history))
	raw, err := s.llmClient.Complete(ctx, s.llmConfig, prompt)
	if err != nil {
		logx.Errorw("answer generation failed", "error", err)
		return nil, ErrAnswerUnavailable
	}

	answer := parseAnswerPayload(raw)
	if answer.Text == "" {
		logx.Warnw("answer generation returned unusable payload", "raw_len", len(raw))
		return nil, ErrAnswerUnavailable
	}
	if language == DefaultLanguage {
		answer.Summary = ""
	}

	if answer.ImageQuery != "" && s.images != nil {
		if url, searchErr := s.images.Search(ctx, answer.ImageQuery); searchErr == nil {
			answer.ImageURL = url
		}
	}
	return answer, nil
}

func toPromptMessages(history []model.ChatMessage) []ai.ChatMessage {
	out := make([]ai.ChatMessage, 0, len(history))
	for _, m := range history {
		out = append(out, ai.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

// parseAnswerPayload decodes the JSON object the prompt asks for. Models do
// not always comply: code fences are stripped, and anything that still is
// not valid JSON is taken verbatim as the answer text.
func parseAnswerPayload(raw string) *Answer {
	trimmed := strings.TrimSpace(raw)
	if fenced := strings.TrimPrefix(trimmed, "```json"); fenced != trimmed {
		trimmed = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(fenced), "```"))
	} else if fenced := strings.TrimPrefix(trimmed, "```"); fenced != trimmed {
		trimmed = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(fenced), "```"))
	}

	var parsed struct {
		Answer     string `json:"answer"`
		Summary    string `json:"summary"`
		ImageQuery string `json:"image_query"`
	}
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil && strings.TrimSpace(parsed.Answer) != "" {
		return &Answer{
			Text:       strings.TrimSpace(parsed.Answer),
			Summary:    strings.TrimSpace(parsed.Summary),
			ImageQuery: strings.TrimSpace(parsed.ImageQuery),
		}
	}
	return &Answer{Text: trimmed}
}
