package imagegen

import (
	"context"
	"errors"
	"fmt"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{
			name: "invalid api key code",
			err:  &openai.APIError{Code: "invalid_api_key"},
			want: KindMissingCredential,
		},
		{
			name: "unauthorized status",
			err:  &openai.APIError{HTTPStatusCode: 401},
			want: KindMissingCredential,
		},
		{
			name: "quota code",
			err:  &openai.APIError{Code: "insufficient_quota"},
			want: KindQuotaExceeded,
		},
		{
			name: "rate limit status",
			err:  &openai.APIError{HTTPStatusCode: 429},
			want: KindQuotaExceeded,
		},
		{
			name: "content policy code",
			err:  &openai.APIError{Code: "content_policy_violation"},
			want: KindContentRejected,
		},
		{
			name: "content policy in message",
			err:  &openai.APIError{Message: "Your request was rejected by our Content Policy."},
			want: KindContentRejected,
		},
		{
			name: "wrapped api error",
			err:  fmt.Errorf("request failed: %w", &openai.APIError{Code: "insufficient_quota"}),
			want: KindQuotaExceeded,
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
			want: KindGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := classify(tt.err)
			assert.Equal(t, tt.want, classified.Kind)
			assert.ErrorIs(t, classified, classified.Err)
		})
	}
}

func TestKindOfFallsBackToGeneric(t *testing.T) {
	assert.Equal(t, KindGeneric, KindOf(errors.New("boom")))
	assert.Equal(t, KindContentRejected,
		KindOf(fmt.Errorf("wrap: %w", &Error{Kind: KindContentRejected, Err: errors.New("x")})))
}

func TestNewWithoutKeyUsesPlaceholder(t *testing.T) {
	gen := New("", 0)
	_, ok := gen.(PlaceholderGenerator)
	require.True(t, ok)

	url, err := gen.Generate(context.Background(), "un chat")
	require.NoError(t, err)
	assert.Contains(t, url, "picsum.photos")
}

func TestNewWithKeyUsesOpenAI(t *testing.T) {
	gen := New("sk-test", 0)
	_, ok := gen.(*OpenAIGenerator)
	assert.True(t, ok)
}
