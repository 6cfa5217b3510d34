package api

import "context"

type suppliedIDKey struct{}

func withSuppliedID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, suppliedIDKey{}, id)
}

// OperatorPrompter adapts the operator-entered identity to HTTP: the id
// arrives in the session-start request body and is staged in the request
// context before the participant service asks for it. Absent or empty input
// is accepted as-is, per the identity rules.
func OperatorPrompter(ctx context.Context) (string, error) {
	if id, ok := ctx.Value(suppliedIDKey{}).(string); ok {
		return id, nil
	}
	return "", nil
}
