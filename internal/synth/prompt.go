package synth

import (
	"fmt"
	"strings"
)

// Length limits requested from the model. Replies are not checked against them.
const (
	MaxTitleLength    = 60
	MaxBodyLineLength = 75
)

const promptHeader = `I need you to analyze the changes shown in this Git diff and generate a commit message. ` +
	`The commit message must be returned exclusively in JSON format as shown in the example below. ` +
	`Do not add anything else to your response.

Example JSON format:

{
  "commit": {
    "title": "Your title here",
    "body": "Your body here."
  }
}

Here the actual Git diff:

`

var promptFooter = fmt.Sprintf(`

Ensure the response includes:
- A title summarizing the changes (max %d characters).
- A body explaining the changes, with a blank line after the title and lines limited to %d characters.`,
	MaxTitleLength, MaxBodyLineLength)

// BuildPrompt embeds diff verbatim in the fixed instructions. The same diff always
// yields the same prompt.
func BuildPrompt(diff string) string {
	var b strings.Builder
	b.Grow(len(promptHeader) + len(diff) + len(promptFooter))
	b.WriteString(promptHeader)
	b.WriteString(diff)
	b.WriteString(promptFooter)
	return b.String()
}
