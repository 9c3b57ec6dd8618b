package schema

// Settings holds the per-interpreter tuning knobs resolved from config.
type Settings struct {
	Model       string
	MaxTokens   int
	Temperature float64

	// MaxTurns caps the number of model round-trips per Run call.
	// Zero means unbounded, matching the behaviour of a model that is
	// trusted to eventually answer without tool calls.
	MaxTurns int
}
