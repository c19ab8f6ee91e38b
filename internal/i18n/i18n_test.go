package i18n

import "testing"

func TestEmbeddedManagerDefaultsToSpanish(t *testing.T) {
	manager, err := NewEmbeddedManager("")
	if err != nil {
		t.Fatalf("NewEmbeddedManager() unexpected error: %v", err)
	}
	if manager.DefaultLanguage() != LangES {
		t.Fatalf("expected default language %q, got %q", LangES, manager.DefaultLanguage())
	}
	if got := manager.Translate("fr", "streak.start"); got != "¡Empieza tu racha hoy!" {
		t.Fatalf("expected spanish fallback, got %q", got)
	}
}

func TestTranslatefFormatsStreakMessage(t *testing.T) {
	manager, err := NewEmbeddedManager(LangES)
	if err != nil {
		t.Fatalf("NewEmbeddedManager() unexpected error: %v", err)
	}
	got := manager.Translatef(LangES, "streak.active", 4)
	if got != "¡Racha de 4 días con el 100% de cumplimiento!" {
		t.Fatalf("unexpected streak message %q", got)
	}
}

func TestDetectFromAcceptLanguage(t *testing.T) {
	manager, err := NewEmbeddedManager(LangES)
	if err != nil {
		t.Fatalf("NewEmbeddedManager() unexpected error: %v", err)
	}
	if got := manager.DetectFromAcceptLanguage("en-US,en;q=0.9"); got != LangEN {
		t.Fatalf("expected %q, got %q", LangEN, got)
	}
	if got := manager.DetectFromAcceptLanguage("de-DE"); got != LangES {
		t.Fatalf("expected fallback %q, got %q", LangES, got)
	}
	if got := manager.Translate(LangEN, "missing.key"); got != "missing.key" {
		t.Fatalf("expected key passthrough, got %q", got)
	}
}
