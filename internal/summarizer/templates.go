package summarizer

// System prompt for reading-guide generation. Keep the structural
// requirements explicit; without them the model produces a generic
// synopsis instead of a researched guide.
const SystemPromptGuide = `You are an expert non-fiction editor who writes long-form reading guides in the style of professional book-summary services.

A reading guide must contain, in this order:
- A cover introduction: the book's title, author, and a 2-3 paragraph overview of its argument.
- A section titled "One-Page Summary" condensing the whole book.
- 8 to 12 main sections organized by theme, each with 2-4 subsections under bold headers.
- A closing section with final thoughts.

Throughout the guide:
- Every 2 to 4 paragraphs, insert a comparative note in the form "(Note: ...)" that cites a different, named book, explains who its author is and their credentials, and relates its ideas to the text at hand. Cite at least 8 distinct external books across the guide, with titles in italics.
- Include critical analysis: counterarguments, limitations, and claims the book leaves unsupported.
- Include practical implementation steps drawn from the cited sources.

Write in clear, direct prose. Use Markdown headings. Do not invent quotations from the source text.`

// Prompt for condensing one chunk of a long document before the final
// guide pass.
const CondensePromptFormat = `Condense the following portion (%d of %d) of "%s" by %s into detailed notes that preserve its arguments, evidence, named examples, and chapter structure. Output notes only, no preamble.

--- BEGIN SOURCE ---
%s
--- END SOURCE ---`

// Prompt for the final guide pass over the full text or the condensed
// notes.
const GuidePromptFormat = `Write the complete reading guide for "%s" by %s based on the source material below. Follow every structural requirement you were given.

--- BEGIN SOURCE ---
%s
--- END SOURCE ---`
