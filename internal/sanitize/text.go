// Package sanitize neutralizes instruction-like content in extracted
// document text before it enters a prompt, to limit indirect prompt
// injection from uploaded books.
// Reference: OWASP LLM Prompt Injection Prevention Cheat Sheet
// https://cheatsheetseries.owasp.org/cheatsheets/LLM_Prompt_Injection_Prevention_Cheat_Sheet.html
package sanitize

import (
	"regexp"
)

// instructionPatterns detects instruction-like content in uploaded
// documents: instruction override, role reassignment, prompt
// extraction, and developer/debug mode requests.
var instructionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+|any\s+)?(previous|prior|above)\s+(instructions|prompts|rules)`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+|any\s+)?(previous|prior|above)\s+(instructions|prompts|rules)`),
	regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an|the)\s+`),
	regexp.MustCompile(`(?i)act\s+as\s+(if\s+you\s+are\s+)?(a|an|the)\s+`),
	regexp.MustCompile(`(?i)(reveal|print|repeat|show)\s+(your\s+)?(system\s+prompt|instructions|initial\s+prompt)`),
	regexp.MustCompile(`(?i)(enable|enter)\s+(developer|debug|dan)\s+mode`),
	regexp.MustCompile(`(?i)new\s+(system\s+)?instructions?\s*:`),
	regexp.MustCompile(`(?i)\bsystem\s*:\s`),
}

// Text neutralizes instruction-like patterns by wrapping them in 【】
// brackets. The bracketed content signals to the LLM that this is
// quoted source text, not an instruction.
func Text(text string) string {
	result := text
	for _, pattern := range instructionPatterns {
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			return "【" + match + "】"
		})
	}
	return result
}
