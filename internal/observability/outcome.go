package observability

// Decode outcome labels.
const (
	OutcomeOK           = "ok"
	OutcomeInvalidInput = "invalid_input"
	OutcomeGrammar      = "grammar"
	OutcomeExhausted    = "exhausted"
	OutcomeLimit        = "limit"
	OutcomeArity        = "arity"
)
