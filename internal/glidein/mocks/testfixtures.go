package mocks

import (
	"context"

	"github.com/glideinproject/glidein/internal/glidein/domain"
)

type StubGateway struct {
	Submitted      []*domain.JobDemand
	SubmittedCount []int
	SubmitError    error
	// Submissions before SubmitError starts being returned
	SubmitErrorAfter int

	Running      int
	RunningError error
	Idle         int
	IdleError    error
	CountQueries int

	CleanupCalls []CleanupCall
	CleanupError error
}

type CleanupCall struct {
	RunningCmd string
	Dir        string
}

func (s *StubGateway) Submit(ctx context.Context, demand *domain.JobDemand) error {
	if s.SubmitError != nil && len(s.Submitted) >= s.SubmitErrorAfter {
		return s.SubmitError
	}
	s.Submitted = append(s.Submitted, demand)
	s.SubmittedCount = append(s.SubmittedCount, demand.RequestedCount())
	return nil
}

func (s *StubGateway) RunningCount(ctx context.Context) (int, error) {
	s.CountQueries++
	return s.Running, s.RunningError
}

func (s *StubGateway) IdleCount(ctx context.Context) (int, error) {
	return s.Idle, s.IdleError
}

func (s *StubGateway) Cleanup(ctx context.Context, runningCmd string, dir string) error {
	s.CleanupCalls = append(s.CleanupCalls, CleanupCall{RunningCmd: runningCmd, Dir: dir})
	return s.CleanupError
}

type StubStateSource struct {
	// One entry per Fetch call; the last entry repeats once exhausted.
	Responses [][]*domain.JobDemand
	Fetches   int
}

func (s *StubStateSource) Fetch(ctx context.Context) []*domain.JobDemand {
	s.Fetches++
	if len(s.Responses) == 0 {
		return nil
	}
	i := s.Fetches - 1
	if i >= len(s.Responses) {
		i = len(s.Responses) - 1
	}
	demands := make([]*domain.JobDemand, len(s.Responses[i]))
	for j, d := range s.Responses[i] {
		demands[j] = d.DeepCopy()
	}
	return demands
}

type StubMonitoringSink struct {
	Reports []domain.CycleSummary
}

func (s *StubMonitoringSink) Report(ctx context.Context, summary domain.CycleSummary) {
	s.Reports = append(s.Reports, summary)
}
