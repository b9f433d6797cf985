// Package heuristic provides a deterministic, rule-based collaborator.
//
// It mirrors the fallback behavior a model-backed collaborator degrades to:
// keyword-driven intent analysis and a linear step proposal per detected
// tool. Because it is fully deterministic it is the default binding for
// development and tests.
package heuristic

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/workflowwiz/wizard/pkg/collaborator"
	"github.com/workflowwiz/wizard/pkg/models"
)

// Collaborator is a stateless rule-based inference engine.
type Collaborator struct{}

func New() *Collaborator {
	return &Collaborator{}
}

// Infer dispatches on the schema title: "intent" prompts get keyword
// analysis of the raw request, "plan" prompts get a step proposal derived
// from the intent JSON in the payload section.
func (c *Collaborator) Infer(_ context.Context, prompt string, schema *models.JSONSchema) (map[string]any, error) {
	payload := collaborator.Payload(prompt)

	switch {
	case schema != nil && schema.Title == "plan":
		return c.proposePlan(payload)
	default:
		return c.analyzeIntent(payload), nil
	}
}

var scheduleHints = map[string]string{
	"every minute":  "* * * * *",
	"every hour":    "0 * * * *",
	"hourly":        "0 * * * *",
	"every day":     "0 9 * * *",
	"daily":         "0 9 * * *",
	"every morning": "0 9 * * *",
	"every week":    "0 9 * * 1",
	"weekly":        "0 9 * * 1",
	"every month":   "0 9 1 * *",
	"monthly":       "0 9 1 * *",
}

var eventHints = []string{
	"when ", "whenever", "each time", "on new", "as soon as",
	"arrives", "is received", "comes in", "is added", "is created",
}

var toolHints = map[string][]string{
	"gmail":   {"email", "gmail", "inbox", "mail"},
	"sheets":  {"sheet", "spreadsheet"},
	"notion":  {"notion"},
	"webhook": {"webhook", "slack", "discord", "endpoint", "http"},
}

var actionVerbs = []string{
	"send", "read", "create", "post", "summarize", "summary", "sync",
	"update", "notify", "append", "write", "fetch", "get", "track", "log",
}

var constraintHints = []string{"only ", "at most", "no more than", "limit", "except"}

func (c *Collaborator) analyzeIntent(request string) map[string]any {
	text := strings.ToLower(strings.TrimSpace(request))

	triggerType := "manual"
	triggerParams := map[string]any{}

	for hint, cron := range scheduleHints {
		if strings.Contains(text, hint) {
			triggerType = "schedule"
			triggerParams["cron"] = cron

			break
		}
	}

	if triggerType == "manual" {
		for _, hint := range eventHints {
			if strings.Contains(text, hint) {
				triggerType = "event"

				break
			}
		}
	}

	var tools []string

	for tool, hints := range toolHints {
		for _, hint := range hints {
			if strings.Contains(text, hint) {
				tools = append(tools, tool)

				break
			}
		}
	}

	sort.Strings(tools)

	actionable := false

	for _, verb := range actionVerbs {
		if strings.Contains(text, verb) {
			actionable = true

			break
		}
	}

	goal := strings.TrimSpace(request)
	if len(tools) == 0 && !actionable {
		// Nothing recognizable: the intent stage treats an empty goal as
		// unextractable.
		goal = ""
	}

	var constraints []string

	for _, sentence := range strings.FieldsFunc(text, func(r rune) bool { return r == '.' || r == ';' || r == ',' }) {
		for _, hint := range constraintHints {
			if strings.Contains(sentence, hint) {
				constraints = append(constraints, strings.TrimSpace(sentence))

				break
			}
		}
	}

	sources, destinations := classifyDataFlow(text, tools)

	result := map[string]any{
		"goal":               goal,
		"summary":            goal,
		"trigger_type":       triggerType,
		"trigger_parameters": triggerParams,
		"required_tools":     toAnySlice(tools),
		"data_sources":       toAnySlice(sources),
		"data_destinations":  toAnySlice(destinations),
		"constraints":        toAnySlice(constraints),
	}

	return result
}

// classifyDataFlow splits detected tools into read-side and write-side based
// on the request phrasing. Tools mentioned after "from" or inside an
// "of my" clause are sources; the rest are destinations.
func classifyDataFlow(text string, tools []string) (sources, destinations []string) {
	for _, tool := range tools {
		isSource := false

		for _, hint := range toolHints[tool] {
			idx := strings.Index(text, hint)
			if idx < 0 {
				continue
			}

			// Look at the few words right before the mention.
			window := text[:idx]
			if len(window) > 24 {
				window = window[len(window)-24:]
			}

			if strings.Contains(window, "from ") ||
				strings.Contains(window, "of my") ||
				strings.Contains(window, "in my") {
				isSource = true
			}

			break
		}

		if isSource {
			sources = append(sources, tool)
		} else {
			destinations = append(destinations, tool)
		}
	}

	return sources, destinations
}

// intentEnvelope is the subset of the intent JSON the proposal rules need.
type intentEnvelope struct {
	Goal          string   `json:"goal"`
	Summary       string   `json:"summary"`
	RawInput      string   `json:"raw_input"`
	RequiredTools []string `json:"required_tools"`
	DataSources   []string `json:"data_sources"`
}

func (c *Collaborator) proposePlan(payload string) (map[string]any, error) {
	var intent intentEnvelope
	if err := json.Unmarshal([]byte(payload), &intent); err != nil {
		return nil, collaborator.NewError("plan", collaborator.ErrMalformedResponse)
	}

	goal := strings.ToLower(intent.Goal + " " + intent.RawInput)

	sourceSet := make(map[string]bool, len(intent.DataSources))
	for _, s := range intent.DataSources {
		sourceSet[s] = true
	}

	var readSteps, writeSteps []map[string]any

	tools := append([]string(nil), intent.RequiredTools...)
	sort.Strings(tools)

	for _, tool := range tools {
		step := proposeStep(tool, goal, sourceSet[tool])
		if step == nil {
			continue
		}

		if sourceSet[tool] {
			readSteps = append(readSteps, step)
		} else {
			writeSteps = append(writeSteps, step)
		}
	}

	steps := make([]any, 0, len(readSteps)+len(writeSteps))
	for _, s := range readSteps {
		steps = append(steps, s)
	}

	for _, s := range writeSteps {
		steps = append(steps, s)
	}

	name := intent.Summary
	if name == "" {
		name = intent.Goal
	}

	return map[string]any{
		"workflow_name": name,
		"description":   intent.Goal,
		"steps":         steps,
	}, nil
}

func proposeStep(tool, goal string, isSource bool) map[string]any {
	step := func(name, action string) map[string]any {
		return map[string]any{"name": name, "tool": tool, "action": action}
	}

	switch tool {
	case "gmail":
		if isSource || strings.Contains(goal, "read email") || strings.Contains(goal, "from my inbox") {
			return step("Read emails", "read_emails")
		}

		return step("Send email", "send_email")
	case "sheets":
		if isSource || strings.Contains(goal, "summary") || strings.Contains(goal, "read") {
			return step("Read sheet rows", "read_rows")
		}

		return step("Append sheet row", "append_row")
	case "notion":
		if strings.Contains(goal, "query") || strings.Contains(goal, "search") {
			return step("Query Notion database", "query_database")
		}

		return step("Create Notion page", "create_page")
	case "webhook":
		if isSource {
			return step("Fetch from endpoint", "get")
		}

		return step("Post to endpoint", "post")
	default:
		return nil
	}
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}

	return out
}
