package inference

import (
	"fmt"
	"strings"
)

const plainTextInstruction = "Do not use Markdown. Answer in plain text."

func buildSummaryPrompt(params ExplainRequest, language string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Explain %q concisely in 3 to 5 lines.\n", params.Text)
	b.WriteString(plainTextInstruction)
	writeLanguage(&b, "Answer in %s.", language)
	writeMemo(&b, params.Memo)
	return b.String()
}

func buildDetailPrompt(params ExplainRequest, language string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Explain %q in detail using the following structure.\n", params.Text)
	b.WriteString("- Overview\n")
	b.WriteString("- Background and context\n")
	b.WriteString("- Concrete examples\n")
	b.WriteString(plainTextInstruction)
	writeLanguage(&b, "Answer in %s.", language)
	writeMemo(&b, params.Memo)
	return b.String()
}

func buildCategorizePrompt(params CategorizeRequest, language string) string {
	var b strings.Builder
	b.WriteString("Classify the following words into the existing categories.\n")
	b.WriteString("If a word fits none of them, propose exactly one new category name for it.")
	writeLanguage(&b, "Write new category names in %s.", language)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Existing categories: [%s]\n\n", strings.Join(params.ExistingCategories, ", "))

	b.WriteString("Words to classify:\n")
	for i, w := range params.Words {
		fmt.Fprintf(&b, "%d. %s", i+1, w.Text)
		if w.Memo != "" {
			fmt.Fprintf(&b, " (memo: %s)", w.Memo)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nAnswer in JSON only, without any explanation:\n")
	b.WriteString("[\n")
	b.WriteString(`  { "text": "word", "category": "category name" }`)
	b.WriteString("\n]")
	return b.String()
}

func writeLanguage(b *strings.Builder, format, language string) {
	if language == "" {
		return
	}
	b.WriteString("\n")
	fmt.Fprintf(b, format, language)
}

// writeMemo appends the memo verbatim. An empty memo adds nothing.
func writeMemo(b *strings.Builder, memo string) {
	if memo == "" {
		return
	}
	b.WriteString("\nSupplementary information: ")
	b.WriteString(memo)
}
