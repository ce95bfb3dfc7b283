package dispatch

import (
	"strings"
	"testing"
)

func TestRenderTemplate(t *testing.T) {
	body, err := RenderTemplate("advance_approved", map[string]string{
		"Amount":   "500000",
		"Currency": "GNF",
	})
	if err != nil {
		t.Fatalf("RenderTemplate: %v", err)
	}
	if !strings.Contains(body, "500000 GNF") {
		t.Errorf("rendered body missing amount: %q", body)
	}
}

func TestRenderTemplateUnknownID(t *testing.T) {
	if _, err := RenderTemplate("no_such_template", nil); err == nil {
		t.Error("expected error for unknown template ID")
	}
}

func TestRenderTemplateMissingKey(t *testing.T) {
	if _, err := RenderTemplate("advance_approved", map[string]string{}); err == nil {
		t.Error("expected error when template data is missing keys")
	}
}

func TestTemplatesFitSMSCap(t *testing.T) {
	data := map[string]string{
		"CompanyName": "Conakry Textiles SARL",
		"Amount":      "1500000",
		"Currency":    "GNF",
		"DueDate":     "2026-09-30",
	}
	for id := range Templates {
		body, err := RenderTemplate(id, data)
		if err != nil {
			t.Errorf("RenderTemplate(%s): %v", id, err)
			continue
		}
		if n := len([]rune(body)); n > 160 {
			t.Errorf("template %s renders to %d runes, over the SMS cap", id, n)
		}
	}
}
