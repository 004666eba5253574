package pipeline

import (
	"context"
	"fmt"
	"slices"
)

// Command names, also used as step names.
const (
	CommandAssemble = "assemble"
	CommandSeed     = "seed"
	CommandStats    = "stats"
	CommandSamples  = "samples"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Dependencies []string
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	CommandAssemble: {Name: CommandAssemble},
	CommandSeed:     {Name: CommandSeed, Dependencies: []string{CommandAssemble}},
	CommandSamples:  {Name: CommandSamples, Dependencies: []string{CommandAssemble}},
	CommandStats:    {Name: CommandStats},
}

// stepOrder breaks ties between independent steps.
var stepOrder = []string{CommandAssemble, CommandStats, CommandSeed, CommandSamples}

// UnknownStepError reports a step name missing from StepRegistry
type UnknownStepError struct {
	Step string
}

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("unknown step: %s", e.Step)
}

// Plan expands the requested steps with their dependencies and returns them
// in execution order. Each step appears once.
func Plan(requested []string) ([]string, error) {
	want := make(map[string]bool)
	var visit func(name string) error
	visit = func(name string) error {
		def, ok := StepRegistry[name]
		if !ok {
			return &UnknownStepError{Step: name}
		}
		if want[name] {
			return nil
		}
		want[name] = true
		for _, dep := range def.Dependencies {
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}
	for _, name := range requested {
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	plan := make([]string, 0, len(want))
	for _, name := range stepOrder {
		if want[name] {
			plan = append(plan, name)
		}
	}
	return plan, nil
}

// RunSteps plans and executes the requested steps, stopping at the first failure.
func RunSteps(ctx context.Context, requested []string, opts Options) ([]string, error) {
	plan, err := Plan(requested)
	if err != nil {
		return nil, err
	}

	var done []string
	for _, step := range plan {
		if err := runStep(ctx, step, opts); err != nil {
			return done, fmt.Errorf("step %s failed: %w", step, err)
		}
		done = append(done, step)
	}
	return done, nil
}

func runStep(ctx context.Context, step string, opts Options) error {
	var err error
	switch step {
	case CommandAssemble:
		_, err = RunAssemble(ctx, opts)
	case CommandSeed:
		_, err = RunSeed(ctx, opts)
	case CommandStats:
		_, err = RunStats(ctx, opts)
	case CommandSamples:
		_, err = RunSamples(ctx, opts)
	default:
		err = &UnknownStepError{Step: step}
	}
	return err
}

// StepNames returns every registered step in execution order.
func StepNames() []string {
	return slices.Clone(stepOrder)
}
