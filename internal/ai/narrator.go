package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/labvolume-cli/internal/logging"
	"github.com/KaramelBytes/labvolume-cli/internal/utils"
)

// DefaultNarrateModel is a small local model that handles Portuguese well.
const DefaultNarrateModel = "qwen2.5:3b"

const narratorInstruction = `You summarize laboratory exam-volume reports for an operations team.
Write 3 to 6 short bullet points in Brazilian Portuguese.
Mention total volumes, the variation, laboratories flagged Crítico or Verificar, and laboratories that appear in only one period.
Use only numbers present in the report. Do not invent laboratories or figures.`

// Narrator asks a model runtime for a short summary of a rendered report.
type Narrator struct {
	Runtime     Runtime
	Model       string
	Temperature float64
	// MaxPromptTokens bounds the report text sent to the model; 0 means no bound.
	MaxPromptTokens int
	// MaxTokens bounds the reply; 0 leaves it to the runtime.
	MaxTokens int
}

// Narrate returns the model's summary of reportMD.
func (n Narrator) Narrate(ctx context.Context, reportMD string) (string, error) {
	if n.Runtime == nil {
		return "", errors.New("narrator has no runtime")
	}
	if strings.TrimSpace(reportMD) == "" {
		return "", errors.New("report is empty")
	}
	model := n.Model
	if model == "" {
		model = DefaultNarrateModel
	}
	body := reportMD
	if n.MaxPromptTokens > 0 && utils.CountTokens(body) > n.MaxPromptTokens {
		body = utils.TruncateToTokenLimit(body, n.MaxPromptTokens) + "\n(report truncated)\n"
	}
	logging.Logger(logging.SourceAI).Debug("narrating report", "model", model,
		"tokens", utils.TokenBreakdown(map[string]string{"system": narratorInstruction, "report": body}))

	resp, err := n.Runtime.Generate(ctx, GenerateRequest{
		Model: model,
		Messages: []Message{
			{Role: "system", Content: narratorInstruction},
			{Role: "user", Content: body},
		},
		Temperature: n.Temperature,
		MaxTokens:   n.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generate narration: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("model returned an empty narration")
	}
	return text, nil
}
