package llm

const MetadataSystemMessage = `You write catalog entries for an internal employee tools portal at a financial company. You respond with a single JSON object and nothing else.`

// MetadataPrompt accepts the tool URL and free-form hints from the submitter.
const MetadataPrompt = `Generate catalog metadata for the internal tool at "%s".

Submitter notes (may be empty):
%s

Respond with exactly this JSON shape:
{
  "title": "short product-style name, max 6 words",
  "description": "one sentence, max 160 characters, plain language",
  "fullDescription": "2-3 short paragraphs describing what the tool does and who should use it",
  "category": "one of: finance, analytics, productivity, communication, compliance, engineering, hr, other",
  "features": ["3 to 6 short bullet phrases"],
  "tags": ["3 to 8 lowercase single words or hyphenated phrases"]
}

Rules:
- Do not invent capabilities that the notes do not support; stay generic when unsure.
- Tags must be lowercase, no spaces (use hyphens).
- Never mention the URL or the company name in the text fields.`
