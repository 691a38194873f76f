package prefs

import (
	"context"
	"errors"
)

// Onboarding steps, in order. The UI resumes at the stored step after an
// app restart.
const (
	StepWelcome = iota
	StepProfile
	StepFirstGoal
	StepReminders
	StepDone
)

// OnboardingStep returns the step the user is on; a fresh install is at
// StepWelcome.
func (s *Store) OnboardingStep(ctx context.Context) (int, error) {
	step, err := s.GetInt(ctx, KeyOnboardingStep)
	if errors.Is(err, ErrNotFound) {
		return StepWelcome, nil
	}
	return step, err
}

func (s *Store) SetOnboardingStep(ctx context.Context, step int) error {
	if err := s.SetInt(ctx, KeyOnboardingStep, step); err != nil {
		return err
	}
	if step >= StepDone {
		return s.SetBool(ctx, KeyOnboardingDone, true)
	}
	return nil
}

func (s *Store) OnboardingDone(ctx context.Context) bool {
	done, err := s.GetBool(ctx, KeyOnboardingDone)
	return err == nil && done
}
