package triage

import (
	"github.com/zhouzirui/care4u/backend/internal/model/symptom"
	"github.com/zhouzirui/care4u/backend/internal/model/triage"
)

// Engine resolves symptom selections into triage verdicts. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	overrideID string
	override   triage.ConditionRule
	rules      []triage.ConditionRule
}

// NewEngine returns an engine over the built-in rule tables.
func NewEngine() *Engine {
	return NewEngineWithRules(triage.Rules())
}

// NewEngineWithRules returns an engine evaluating rules in the given order.
// The breathing-difficulty override always takes precedence.
func NewEngineWithRules(rules []triage.ConditionRule) *Engine {
	return &Engine{
		overrideID: symptom.Breath,
		override:   triage.EmergencyRule(),
		rules:      append([]triage.ConditionRule(nil), rules...),
	}
}

// Resolve turns a selection plus the declared severity and duration into a
// verdict. It never fails: an empty or unmatched selection yields the
// fallback profile at the declared severity.
func (e *Engine) Resolve(selection *symptom.Selection, declared triage.Severity, duration triage.Duration) triage.Verdict {
	rule, emergency, ok := e.match(selection)
	if !ok {
		rule = triage.ConditionRule{
			ConditionType: triage.FallbackCondition,
			Severity:      declared,
			Advice:        triage.FallbackAdvice,
		}
	}

	return triage.Verdict{
		ConditionType: rule.ConditionType,
		Severity:      rule.Severity,
		Advice:        rule.Advice,
		Guidance:      triage.Guidance(rule.Severity),
		Timeline:      triage.Timeline(duration),
		CareSteps:     triage.CareStepsFor(selection.Contains),
		Emergency:     emergency,
	}
}

func (e *Engine) match(selection *symptom.Selection) (triage.ConditionRule, bool, bool) {
	if selection.Contains(e.overrideID) {
		return e.override, true, true
	}
	for _, rule := range e.rules {
		if rule.Matches(selection.Contains) {
			return rule, false, true
		}
	}
	return triage.ConditionRule{}, false, false
}
