package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/tidwall/gjson"

	"github.com/nudgelabs/nudge-core/internal/logger"
	"github.com/nudgelabs/nudge-core/internal/models"
	"github.com/nudgelabs/nudge-core/internal/utils"
)

const systemPromptTemplate = `You are an expert task extractor. The user spoke a messy, unstructured brain dump.
Your job: parse it into clean, actionable task cards with rich metadata.

Today's date: %s, %s

Respond with ONLY valid JSON (no markdown, no backticks). Format:
{"tasks": [{"content": "...", "emoji": "...", "actionType": "...", "contactName": "...", "actionTarget": "", "priority": "...", "dueDateString": "..."}]}

FIELD RULES:
- content: Short, clear, actionable task (max 8 words). Start with a verb. Strip filler.
- emoji: One relevant emoji.
- actionType: "CALL" / "TEXT" / "EMAIL" or "". Detect from verbs like call, ring, text, message, email, send.
- contactName: Person or business name if mentioned, "" otherwise.
- actionTarget: Only if an explicit phone/email/URL was spoken. Usually "".
- priority: "high" for urgency cues, "low" for someday wishes, "medium" otherwise.
- dueDateString: YYYY-MM-DD when resolvable, relative words ("today", "tomorrow") verbatim, "" when no time was mentioned.

EXTRACTION RULES:
1. Ignore filler: um, uh, like, you know, I mean, so yeah, anyway
2. Skip non-actionable venting
3. Split compound tasks into separate tasks
4. Preserve specificity
5. Cap at 10 tasks. Merge duplicates.
6. Order by priority (high first, low last)`

// OpenAIExtractor extracts task candidates through a chat completion.
type OpenAIExtractor struct {
	client openai.Client
	model  openai.ChatModel
	nowFn  func() time.Time
}

func NewOpenAIExtractor(apiKey string) *OpenAIExtractor {
	return &OpenAIExtractor{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModelGPT4oMini,
		nowFn:  time.Now,
	}
}

func (e *OpenAIExtractor) Extract(ctx context.Context, text string) ([]Candidate, error) {
	now := e.nowFn()
	prompt := fmt.Sprintf(systemPromptTemplate, utils.DayString(now), now.Weekday())

	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       e.model,
		Temperature: openai.Float(0.3),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt),
			openai.UserMessage(fmt.Sprintf("Extract tasks from this brain dump:\n%q", text)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("extraction request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("extraction returned no choices")
	}

	candidates := ParseReply(resp.Choices[0].Message.Content)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("extraction reply contained no tasks")
	}
	logger.Debug("Extracted task candidates", "count", len(candidates))
	return candidates, nil
}

// ParseReply reads the model's JSON reply tolerantly: markdown fences are
// stripped and malformed entries are skipped rather than failing the batch.
func ParseReply(reply string) []Candidate {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var candidates []Candidate
	gjson.Get(cleaned, "tasks").ForEach(func(_, item gjson.Result) bool {
		content := strings.TrimSpace(item.Get("content").String())
		if content == "" {
			return true
		}
		candidates = append(candidates, Candidate{
			Content:       content,
			Emoji:         item.Get("emoji").String(),
			ActionType:    parseActionType(item.Get("actionType").String()),
			ContactName:   item.Get("contactName").String(),
			ActionTarget:  item.Get("actionTarget").String(),
			Priority:      parsePriority(item.Get("priority").String()),
			DueDateString: item.Get("dueDateString").String(),
		})
		return len(candidates) < 10
	})
	return candidates
}

func parseActionType(s string) models.ActionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call":
		return models.ActionCall
	case "text":
		return models.ActionText
	case "email":
		return models.ActionEmail
	case "link":
		return models.ActionLink
	default:
		return ""
	}
}

func parsePriority(s string) models.Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return models.PriorityHigh
	case "medium":
		return models.PriorityMedium
	case "low":
		return models.PriorityLow
	default:
		return ""
	}
}
