package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/glowedge/skincare-backend/internal/domain/routine"
)

// TiktokenCounter estimates prompt sizes with the model's own tokenizer.
type TiktokenCounter struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter resolves the encoding for the configured model, falling
// back to cl100k_base for models tiktoken does not know yet.
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		encoding, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("resolve tokenizer encoding: %w", err)
		}
	}
	return &TiktokenCounter{encoding: encoding}, nil
}

// Count returns the token count of the text.
func (c *TiktokenCounter) Count(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

var _ routine.TokenCounter = (*TiktokenCounter)(nil)
