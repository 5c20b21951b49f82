package llm

import "context"

// Provider defines the interface for completion providers. The pipeline
// consults it for reply prose and fallback intent classification only;
// numeric and categorical decisions never come from here.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
