package questiongen

// Config controls the behavior of the Gateway.
type Config struct {
	// MaxTokens is the token budget for the LLM response. Batch
	// generation needs headroom: each question costs roughly 100
	// tokens of JSON.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxAvoidTexts is the maximum number of previously seen question
	// texts to embed in the prompt as a negative constraint.
	MaxAvoidTexts int
}

// DefaultConfig returns a Config with the recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:     4096,
		Temperature:   0.7,
		MaxAvoidTexts: 10,
	}
}
