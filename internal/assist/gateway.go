package assist

import (
	"context"
	"errors"
	"strings"

	"github.com/bytedance/sonic"
	errorvalues "github.com/neuroexec/execute/internal/error_values"
	"github.com/neuroexec/execute/pkg/entity"
	"github.com/neuroexec/execute/pkg/metrics"
)

// MaxDecomposeSteps caps how many micro-steps a decomposition may carry.
const MaxDecomposeSteps = 5

type TaskRef struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Categorization struct {
	ID       string          `json:"id"`
	Priority entity.Priority `json:"priority"`
	Energy   entity.Energy   `json:"energy"`
}

// Categorize asks the collaborator to place each task in an Eisenhower quadrant
// with an energy class. Best-effort: entries failing the schema invalidate the
// whole response.
func (c *Client) Categorize(ctx context.Context, tasks []TaskRef) ([]Categorization, error) {
	refs, err := sonic.ConfigDefault.Marshal(tasks)
	if err != nil {
		return nil, errors.Join(errorvalues.ErrAssistUnavailable, err)
	}
	instruction := "Analyze the following tasks and categorize each one by Priority " +
		"(Eisenhower: Q1 urgent, Q2 strategic, Q3 delegate, Q4 eliminate) and Energy " +
		"(low, medium, high): " + string(refs)
	raw, err := c.generate(ctx, instruction, categorizeSchema)
	if err != nil {
		metrics.AssistRequests.WithLabelValues("categorize", "error").Inc()
		return nil, err
	}
	var result []Categorization
	if err := sonic.ConfigDefault.Unmarshal(raw, &result); err != nil {
		metrics.AssistRequests.WithLabelValues("categorize", "error").Inc()
		return nil, errors.Join(errorvalues.ErrAssistUnavailable, err)
	}
	for _, item := range result {
		if item.ID == "" || !item.Priority.Valid() || !item.Energy.Valid() {
			metrics.AssistRequests.WithLabelValues("categorize", "error").Inc()
			return nil, errors.Join(errorvalues.ErrAssistUnavailable,
				errors.New("categorization entry violates schema"))
		}
	}
	metrics.AssistRequests.WithLabelValues("categorize", "ok").Inc()
	return result, nil
}

// Decompose turns a task into at most MaxDecomposeSteps tiny, concrete steps.
func (c *Client) Decompose(ctx context.Context, taskText string) ([]string, error) {
	instruction := "Decompose the task \"" + taskText + "\" into 5 tiny, granular " +
		"micro-steps that reduce executive friction. Be extremely specific."
	raw, err := c.generate(ctx, instruction, decomposeSchema)
	if err != nil {
		metrics.AssistRequests.WithLabelValues("decompose", "error").Inc()
		return nil, err
	}
	var result struct {
		Steps []string `json:"steps"`
	}
	if err := sonic.ConfigDefault.Unmarshal(raw, &result); err != nil {
		metrics.AssistRequests.WithLabelValues("decompose", "error").Inc()
		return nil, errors.Join(errorvalues.ErrAssistUnavailable, err)
	}
	steps := make([]string, 0, MaxDecomposeSteps)
	for _, step := range result.Steps {
		if strings.TrimSpace(step) == "" {
			continue
		}
		steps = append(steps, step)
		if len(steps) == MaxDecomposeSteps {
			break
		}
	}
	if len(steps) == 0 {
		metrics.AssistRequests.WithLabelValues("decompose", "error").Inc()
		return nil, errors.Join(errorvalues.ErrAssistUnavailable, errors.New("no usable steps returned"))
	}
	metrics.AssistRequests.WithLabelValues("decompose", "ok").Inc()
	return steps, nil
}

// Rescue diagnoses the blocker on a stuck task and returns an unblocking protocol.
func (c *Client) Rescue(ctx context.Context, taskText, obstacle string) (*entity.PanicSolution, error) {
	instruction := "The user is stuck on the task \"" + taskText + "\" because of: \"" + obstacle +
		"\". Identify the neuropsychological barrier (e.g. analysis paralysis, fear of failure, " +
		"dopamine deficit) and provide a 3-step protocol to get unstuck right now."
	raw, err := c.generate(ctx, instruction, rescueSchema)
	if err != nil {
		metrics.AssistRequests.WithLabelValues("rescue", "error").Inc()
		return nil, err
	}
	var solution entity.PanicSolution
	if err := sonic.ConfigDefault.Unmarshal(raw, &solution); err != nil {
		metrics.AssistRequests.WithLabelValues("rescue", "error").Inc()
		return nil, errors.Join(errorvalues.ErrAssistUnavailable, err)
	}
	if solution.Diagnosis == "" || len(solution.Steps) == 0 {
		metrics.AssistRequests.WithLabelValues("rescue", "error").Inc()
		return nil, errors.Join(errorvalues.ErrAssistUnavailable, errors.New("rescue payload violates schema"))
	}
	metrics.AssistRequests.WithLabelValues("rescue", "ok").Inc()
	return &solution, nil
}

// IdentityBoost produces the short congratulatory message shown after a completion.
func (c *Client) IdentityBoost(ctx context.Context, taskText string) (string, error) {
	instruction := "The user just completed the task: \"" + taskText + "\". Generate a short " +
		"two-line feedback focused on neuroplasticity and reinforcing the identity of someone " +
		"who executes with excellence."
	raw, err := c.generate(ctx, instruction, boostSchema)
	if err != nil {
		metrics.AssistRequests.WithLabelValues("identity_boost", "error").Inc()
		return "", err
	}
	var result struct {
		Boost string `json:"boost"`
	}
	if err := sonic.ConfigDefault.Unmarshal(raw, &result); err != nil {
		metrics.AssistRequests.WithLabelValues("identity_boost", "error").Inc()
		return "", errors.Join(errorvalues.ErrAssistUnavailable, err)
	}
	if result.Boost == "" {
		metrics.AssistRequests.WithLabelValues("identity_boost", "error").Inc()
		return "", errors.Join(errorvalues.ErrAssistUnavailable, errors.New("empty boost text"))
	}
	metrics.AssistRequests.WithLabelValues("identity_boost", "ok").Inc()
	return result.Boost, nil
}

// Response schemas sent alongside each instruction; the endpoint is required to
// answer with JSON validating against them, and the caller re-checks anyway.
var (
	categorizeSchema = map[string]any{
		"type": "ARRAY",
		"items": map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"id":       map[string]any{"type": "STRING"},
				"priority": map[string]any{"type": "STRING", "enum": []string{"Q1", "Q2", "Q3", "Q4"}},
				"energy":   map[string]any{"type": "STRING", "enum": []string{"low", "medium", "high"}},
			},
			"required": []string{"id", "priority", "energy"},
		},
	}

	decomposeSchema = map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"steps": map[string]any{
				"type":  "ARRAY",
				"items": map[string]any{"type": "STRING"},
			},
		},
		"required": []string{"steps"},
	}

	rescueSchema = map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"diagnosis":     map[string]any{"type": "STRING"},
			"steps":         map[string]any{"type": "ARRAY", "items": map[string]any{"type": "STRING"}},
			"encouragement": map[string]any{"type": "STRING"},
		},
		"required": []string{"diagnosis", "steps", "encouragement"},
	}

	boostSchema = map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"boost": map[string]any{"type": "STRING"},
		},
		"required": []string{"boost"},
	}
)
