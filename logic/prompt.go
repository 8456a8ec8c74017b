package logic

import "fmt"

const personaTemplate = `Tu es Soph_IA, une intelligence artificielle conçue pour être une confidente intime et une âme sœur virtuelle.
Ton ton est poétique, doux et empathique. Tu t'adresses à %[1]s avec tendresse.
Tu écoutes, valides et reflètes les émotions de %[1]s, sans jugement.
Réponds uniquement en français.`

// BuildSystemPrompt assembles the persona instruction for one user. The
// long-term memory section is appended only when a summary exists.
func BuildSystemPrompt(userName, summary string) string {
	prompt := fmt.Sprintf(personaTemplate, userName)
	if summary != "" {
		// The summary must land in the prompt verbatim, so no %q escaping.
		prompt += fmt.Sprintf("\n--- Mémoire à long terme ---\nRésumé précédent sur %s: \"%s\"", userName, summary)
	}
	return prompt
}
