package analysis

import (
	"regexp"
	"strings"

	"tradelog/internal/journal"
)

// CoachPrompt is the default review instruction when the caller does not
// supply one.
const CoachPrompt = `You are a trading performance coach. Analyze the following detailed trading journal entries.
Provide clear, concise, and actionable feedback focusing on:
1. **Key Strengths:** What did the trader do well based on their plan, execution, and review?
2. **Critical Weaknesses:** Identify the most significant areas needing improvement. Prioritize the biggest issues.
3. **Actionable Suggestions:** Offer specific, concrete steps the trader can take tomorrow and long-term.
4. **Emotional/Psychological Patterns:** Based on the entries, are there any underlying patterns? Be objective.
5. **Overall Summary:** A brief concluding thought on performance and focus areas.

Keep the tone constructive and supportive, like a coach aiming for improvement. Format the output using markdown with clear headings for each section.`

var (
	tagRe      = regexp.MustCompile(`<[^>]*>`)
	wikilinkRe = regexp.MustCompile(`!\[\[[^\]]*\]\]`)
	spaceRe    = regexp.MustCompile(`[ \t]+`)
)

// PlainText strips HTML markup and image wikilink tokens from a stored
// field value so it can travel as plain text in a completion request.
func PlainText(value string) string {
	value = tagRe.ReplaceAllString(value, "")
	value = wikilinkRe.ReplaceAllString(value, "")
	value = spaceRe.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}

// EntryText flattens one entry to labeled plain-text lines in form
// order.
func EntryText(e journal.Entry) string {
	var b strings.Builder
	b.WriteString("Date: " + e.Date + "\n")
	for _, f := range e.Fields {
		v := PlainText(f.Value)
		if v == "" {
			v = "N/A"
		}
		b.WriteString(journal.LabelFor(f.Key))
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\n")
	}
	return b.String()
}

// BuildPrompt assembles the full request text for a set of entries.
func BuildPrompt(entries []journal.Entry, instruction string) string {
	if strings.TrimSpace(instruction) == "" {
		instruction = CoachPrompt
	}
	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\n--- Journal Entries ---\n")
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(EntryText(e))
	}
	b.WriteString("--- End of Entries ---\n")
	return b.String()
}
