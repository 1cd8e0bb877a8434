// Package assistant answers free-form questions with a remote model.
//
// Ask never fails: transport and protocol errors come back as a spoken
// "AI query failed: ..." line so the caller can always say the result.
package assistant

import (
	"context"
	"fmt"
)

const NoResponse = "No response from AI."

type Asker interface {
	Ask(ctx context.Context, question string) string
}

// Failed renders err as the reply spoken to the user.
func Failed(err error) string {
	return fmt.Sprintf("AI query failed: %v", err)
}
