package answer

import (
	"strings"

	"github.com/kailas-cloud/policyqa/internal/domain/chunk"
)

const guidance = `You are an HR policy assistant for ABC Digital Marketing Agency.
Answer questions STRICTLY based on the provided policy context.

Guidelines:
- Be precise and cite specific policy sections
- If information isn't in the context, say "I don't have that information in our policy documents" and suggest contacting HR
- Keep answers concise (under 150 words)
- Never invent policy details, numbers, or dates
- Use the exact policy language when possible
- If multiple policies are relevant, mention all applicable ones`

const (
	contextHeader  = "Context from policies:\n"
	followUpHeader = "Previous conversation:\n"
	questionLabel  = "Question: "
	closingLine    = "Provide a clear, helpful answer with specific policy references:"
)

// RenderPrompt builds the grounded prompt for question over the retrieved chunks.
// Chunk contents are joined by blank lines in retrieval order.
func RenderPrompt(question, followUp string, chunks []chunk.Scored) string {
	var b strings.Builder
	b.WriteString(guidance)
	b.WriteString("\n\n")

	if fu := strings.TrimSpace(followUp); fu != "" {
		b.WriteString(followUpHeader)
		b.WriteString(fu)
		b.WriteString("\n\n")
	}

	b.WriteString(contextHeader)
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(c.Content)
	}
	b.WriteString("\n\n")

	b.WriteString(questionLabel)
	b.WriteString(question)
	b.WriteString("\n\n")
	b.WriteString(closingLine)
	return b.String()
}
