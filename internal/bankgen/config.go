package bankgen

// Config controls the behavior of the Generator.
type Config struct {
	// Validators run in order on the raw batch; the first failure stops
	// generation.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxAvoid caps how many prompts from Input.Avoid go into the prompt.
	MaxAvoid int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&DuplicateValidator{},
		},
		MaxTokens:   8192,
		Temperature: 0.7,
		MaxAvoid:    30,
	}
}
