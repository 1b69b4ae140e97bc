package domain_test

import (
	"context"
	"testing"

	"github.com/identify-labs/marquee/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestComposeHooks(t *testing.T) {
	var calls []string

	a := domain.LifecycleHooks{
		OnStart: func(ctx context.Context, e *domain.SequenceEvent) { calls = append(calls, "a.start") },
	}
	b := domain.LifecycleHooks{
		OnStart:       func(ctx context.Context, e *domain.SequenceEvent) { calls = append(calls, "b.start") },
		OnStepApplied: func(ctx context.Context, e *domain.StepEvent) { calls = append(calls, "b.step") },
	}

	hooks := domain.ComposeHooks(a, b)
	hooks.OnStart(context.Background(), &domain.SequenceEvent{})
	hooks.OnStepApplied(context.Background(), &domain.StepEvent{})

	assert.Equal(t, []string{"a.start", "b.start", "b.step"}, calls)
	assert.Nil(t, hooks.OnSkip, "unset hooks stay nil")
}
