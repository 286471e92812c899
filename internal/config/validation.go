package config

import (
	"fmt"
)

// Validate checks every field with a constrained range. It collects the
// first violation and returns it wrapped in the matching sentinel.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.Limits.MaxFileBytes <= 0 {
		return fmt.Errorf("%w: max_file_bytes must be positive, got %d", ErrInvalidLimit, c.Limits.MaxFileBytes)
	}
	if c.Limits.MaxRows <= 0 {
		return fmt.Errorf("%w: max_rows must be positive, got %d", ErrInvalidLimit, c.Limits.MaxRows)
	}
	if c.Limits.PreviewRows < 0 {
		return fmt.Errorf("%w: preview_rows must be non-negative, got %d", ErrInvalidLimit, c.Limits.PreviewRows)
	}

	if c.Delegate.Python == "" {
		return ErrMissingPython
	}
	if c.Delegate.Timeout <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidTimeout, c.Delegate.Timeout)
	}

	for name, ratio := range map[string]float64{
		"train_ratio": c.TrainRatio,
		"val_ratio":   c.ValRatio,
		"test_ratio":  c.TestRatio,
	} {
		if ratio < 0 || ratio > 1 {
			return fmt.Errorf("%w: %s must be in [0, 1], got %g", ErrInvalidRatio, name, ratio)
		}
	}
	if c.TrainRatio+c.ValRatio > 1 {
		return fmt.Errorf("%w: train_ratio+val_ratio exceeds 1", ErrInvalidRatio)
	}
	return nil
}

// RequireAPIKey validates that the Gemini key is present; only the ask
// command calls this.
func (c *Config) RequireAPIKey() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("%w: set OCEANKIT_GEMINI_API_KEY or GEMINI_API_KEY", ErrMissingAPIKey)
	}
	return nil
}
