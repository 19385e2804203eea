package llm

// ResolveMaxTokens computes the output-token budget to send to the
// provider. A positive requested value wins but is clamped to the
// model's documented ceiling when one is known, since exceeding a
// ceiling causes hard request failures. Zero or negative requested
// values are treated as absent. The return value is then the
// ceiling when one is known, otherwise fallback; a result of 0 means
// "omit the field and let the provider pick its default".
func ResolveMaxTokens(table CapabilityTable, model string, requested, fallback int) int {
	limit, ok := table.Lookup(model)
	if requested > 0 {
		if ok && requested > limit {
			return limit
		}
		return requested
	}
	if ok {
		return limit
	}
	return fallback
}
