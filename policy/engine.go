// Package policy evaluates whether a submitted utterance is accepted
// before it reaches the session flow.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.chat_policy.decision"),
		rego.Module("chat_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// SubmissionInput is the document evaluated for each submission.
type SubmissionInput struct {
	Username string `json:"username"`
	Text     string `json:"text"`
}

// Evaluate checks the submission policy.
// Returns: decision (allow, block), reason (optional), error.
func (e *Engine) Evaluate(ctx context.Context, input SubmissionInput) (string, string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return "allow", "default", nil
	}

	val := results[0].Expressions[0].Value
	switch v := val.(type) {
	case string:
		return v, "", nil
	case map[string]interface{}:
		decision, _ := v["decision"].(string)
		reason, _ := v["reason"].(string)
		if decision == "" {
			decision = "allow"
		}
		return decision, reason, nil
	}
	return "allow", "unexpected return type", nil
}

// DefaultPolicy is the default submission policy: reject blank input and
// input past the prompt-size cap, accept everything else.
const DefaultPolicy = `
package chat_policy

import rego.v1

default decision := {"decision": "allow"}

decision := {"decision": "block", "reason": "empty input"} if {
	trim_space(input.text) == ""
}

decision := {"decision": "block", "reason": "input too long"} if {
	trim_space(input.text) != ""
	count(input.text) > 4096
}
`
