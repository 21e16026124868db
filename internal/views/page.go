package views

import (
	"github.com/a-h/templ"
	"github.com/mssola/useragent"

	"grimoire/internal/character/models"
)

// InstallPrompt decides how the install banner is presented.
type InstallPrompt struct {
	// IOS devices have no install event; they get manual instructions instead.
	IOS bool
}

// DetectInstallPrompt inspects the client's User-Agent header.
func DetectInstallPrompt(userAgent string) InstallPrompt {
	ua := useragent.New(userAgent)
	switch ua.Platform() {
	case "iPhone", "iPad", "iPod":
		return InstallPrompt{IOS: true}
	}
	return InstallPrompt{}
}

var headerFields = []struct {
	name        string
	placeholder string
	value       func(models.Header) string
}{
	{"name", "Nome do Personagem", func(h models.Header) string { return h.Name }},
	{"classLevel", "Classe e Nível", func(h models.Header) string { return h.ClassLevel }},
	{"race", "Raça", func(h models.Header) string { return h.Race }},
	{"background", "Antecedente", func(h models.Header) string { return h.Background }},
	{"alignment", "Tendência", func(h models.Header) string { return h.Alignment }},
	{"appearance", "Aparência", func(h models.Header) string { return h.Appearance }},
}

// Page renders the full app shell with the given tab selected. Unknown tabs
// select the start tab.
func Page(rec models.Record, tab string, prompt InstallPrompt) templ.Component {
	active, ok := ParseTab(tab)
	if !ok {
		active = TabStart
	}
	return shell(rec, active, prompt)
}
