package marquee_test

import (
	"context"
	"fmt"
	"time"

	"github.com/identify-labs/marquee"
	"github.com/identify-labs/marquee/pkg/adapters/memory"
	"github.com/identify-labs/marquee/pkg/clock"
)

// ExampleNew plays the hero chat against a virtual clock and an in-memory stage.
func ExampleNew() {
	c := clock.NewFake(time.Date(2024, 3, 1, 8, 11, 0, 0, time.UTC))
	stage := memory.NewStage()
	player := marquee.New(marquee.WithStage(stage), marquee.WithClock(c))

	ctx := context.Background()
	player.Start(ctx, false)

	c.Advance(6 * time.Second)
	fmt.Println(stage.Scene().Label, player.State().Phase())

	player.Skip(ctx)
	fmt.Println(stage.Scene().Revealed, player.State().Phase())

	// Output:
	// 8:12 AM running
	// true skipped
}

// ExampleNew_reducedMotion shows the instant collapse to the end state.
func ExampleNew_reducedMotion() {
	stage := memory.NewStage()
	player := marquee.New(marquee.WithStage(stage))

	player.Start(context.Background(), true)

	fmt.Println(len(stage.Scene().Messages), player.State().Phase())

	// Output:
	// 3 finalized
}
