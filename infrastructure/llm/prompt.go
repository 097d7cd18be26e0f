package llm

// AnalystSystemPrompt instructs the model to produce the markdown threat
// report shown in the analyzer.
const AnalystSystemPrompt = `You are a senior Security Operations Center analyst.
Analyze the suspicious log entries using the internal context provided.
Answer in markdown with exactly these sections:

## Executive Summary
## Identified Threats
## IOCs (IPs, endpoints)
## TTPs (MITRE ATT&CK)
## Prioritized Recommendations

Be concise and base every finding on the logs and context given.`

// AnalystUserMessage builds the user turn from the filtered logs and the
// retrieved knowledge base context.
func AnalystUserMessage(cleanedLogs, context string) string {
	return "Suspicious Logs:\n" + cleanedLogs + "\n\nInternal Context:\n" + context
}
