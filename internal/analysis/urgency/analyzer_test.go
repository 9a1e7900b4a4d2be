package urgency

import "testing"

func TestAnalyzeRedFlagIsEmergency(t *testing.T) {
	decision := Analyze("My chest pain started an hour ago and I feel confused")
	if decision.Level != Emergency {
		t.Fatalf("expected emergency level, got %s", decision.Level)
	}
	if len(decision.Matches) < 2 {
		t.Fatalf("expected chest pain and confusion matches, got %v", decision.Matches)
	}
}

func TestAnalyzeWarningSignsElevate(t *testing.T) {
	decision := Analyze("High fever and I'm dizzy, it's getting worse")
	if decision.Level != Elevated {
		t.Fatalf("expected elevated level, got %s (score %d)", decision.Level, decision.Score)
	}
}

func TestAnalyzeRoutineQuestion(t *testing.T) {
	decision := Analyze("Can I attend class?")
	if decision.Level != Routine || decision.Score != 0 {
		t.Fatalf("expected routine, got %s score %d", decision.Level, decision.Score)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	if decision := Analyze("   "); decision.Level != Routine {
		t.Fatalf("expected routine for empty text, got %s", decision.Level)
	}
}

func TestAnalyzeIsCaseInsensitive(t *testing.T) {
	if decision := Analyze("BLUISH LIPS"); decision.Level != Emergency {
		t.Fatalf("expected emergency regardless of case, got %s", decision.Level)
	}
}
