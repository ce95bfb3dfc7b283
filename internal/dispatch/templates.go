package dispatch

import (
	"bytes"
	"fmt"
	"text/template"
)

// Templates maps template IDs to SMS-sized message bodies. Texts are kept
// under 160 characters after substitution for typical inputs.
var Templates = map[string]string{
	"partnership_submitted": "NimbaPay: demande de partenariat recue pour {{.CompanyName}}. Notre equipe vous contactera sous 48h. Merci de votre confiance.",
	"advance_approved":      "NimbaPay: votre avance de {{.Amount}} {{.Currency}} est approuvee. Le versement est en cours de traitement.",
	"advance_disbursed":     "NimbaPay: {{.Amount}} {{.Currency}} verses sur votre compte. Remboursement preleve sur votre prochain salaire.",
	"repayment_due":         "NimbaPay: rappel, le remboursement de votre avance de {{.Amount}} {{.Currency}} est du le {{.DueDate}}.",
}

// RenderTemplate fills the template identified by id with data.
func RenderTemplate(id string, data map[string]string) (string, error) {
	content, ok := Templates[id]
	if !ok {
		return "", fmt.Errorf("unknown template: %s", id)
	}

	tmpl, err := template.New(id).Option("missingkey=error").Parse(content)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", id, err)
	}
	return buf.String(), nil
}
