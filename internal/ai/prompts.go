package ai

import (
	"strings"
	"text/template"
)

// PromptData holds the values available to the commit prompt template.
type PromptData struct {
	Diff string
}

const commitPromptTemplate = "Based on the following git diff, please generate a concise and clear commit message in English.\n" +
	"The message should follow the Conventional Commits specification.\n" +
	"Summarize the main changes in a title, and then provide a bulleted list of the key changes.\n" +
	"\n" +
	"Here is the git diff:\n" +
	"```diff\n" +
	"{{.Diff}}\n" +
	"```\n"

var commitPrompt = template.Must(template.New("commitPrompt").Parse(commitPromptTemplate))

// BuildCommitPrompt embeds diff, byte for byte, in the fixed commit instructions.
func BuildCommitPrompt(diff string) string {
	var b strings.Builder
	// The template is static and its only field is a string, so Execute cannot fail.
	if err := commitPrompt.Execute(&b, PromptData{Diff: diff}); err != nil {
		panic(err)
	}
	return b.String()
}
