package services

import (
	"context"

	"github.com/yoockh/placementcell/internal/eligibility"
	"github.com/yoockh/placementcell/internal/models"
	mongorepo "github.com/yoockh/placementcell/internal/repositories/mongo"
	pgrepo "github.com/yoockh/placementcell/internal/repositories/postgres"
	"github.com/yoockh/placementcell/internal/utils"
)

type Dashboard struct {
	Profile          *ProfileInfo      `json:"profile"`
	EligibleJobs     []models.Job      `json:"eligibleJobs"`
	UpcomingEvents   []models.Event    `json:"upcomingEvents"`
	ApplicationStats *ApplicationStats `json:"applicationStats"`
}

// DashboardService composes read-only views; it never writes.
type DashboardService interface {
	ForStudent(ctx context.Context, studentID string) (*Dashboard, error)
}

type dashboardService struct {
	students pgrepo.StudentRepository
	apps     pgrepo.ApplicationRepository
	jobs     JobService
	events   mongorepo.EventRepository
	stats    ApplicationService
	clock    Clock
}

func NewDashboardService(
	students pgrepo.StudentRepository,
	apps pgrepo.ApplicationRepository,
	jobs JobService,
	events mongorepo.EventRepository,
	stats ApplicationService,
	clock Clock,
) DashboardService {
	return &dashboardService{students: students, apps: apps, jobs: jobs, events: events, stats: stats, clock: clock}
}

func (s *dashboardService) ForStudent(ctx context.Context, studentID string) (*Dashboard, error) {
	const op = "DashboardService.ForStudent"

	st, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, repoErr(op, err, "student not found")
	}

	open, err := s.jobs.OpenJobs(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := s.apps.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	applied := make(map[string]struct{}, len(apps))
	for _, a := range apps {
		applied[a.JobID] = struct{}{}
	}

	now := s.clock.Now()
	profile := eligibility.ProfileOf(st)
	eligible := make([]models.Job, 0, len(open))
	for _, j := range open {
		if _, done := applied[j.ID]; done {
			continue
		}
		if !j.AcceptingAt(now) {
			continue
		}
		if eligibility.Evaluate(j.Eligibility, profile).Eligible {
			eligible = append(eligible, j)
		}
	}

	events, err := s.events.Upcoming(ctx, now, DefaultUpcomingEvents)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list events", err)
	}
	if events == nil {
		events = []models.Event{}
	}

	stats, err := s.stats.StatsForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Profile:          profileOf(st),
		EligibleJobs:     eligible,
		UpcomingEvents:   events,
		ApplicationStats: stats,
	}, nil
}
