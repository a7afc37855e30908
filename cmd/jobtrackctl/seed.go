package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"jobtracker/internal/app"
	"jobtracker/internal/domain/application"
	"jobtracker/internal/domain/auth"
	"jobtracker/internal/domain/jobad"
	"jobtracker/internal/domain/recruiter"
	"jobtracker/internal/pkg/apperr"
)

const (
	demoEmail    = "demo@jobtracker.local"
	demoPassword = "demo-password"
)

type seedAd struct {
	company, title, url string
	jobType, source     string
	recruiter           int // index into seedRecruiters, -1 for none
	path                []application.Status
}

var seedRecruiters = []recruiter.RecruiterRequest{
	{Name: "Dana Whitfield", Role: "Tech Recruiter", WorkingAt: "Northwind"},
	{Name: "Tomas Lindqvist", Role: "Talent Partner", WorkingAt: "Globex"},
}

var seedAds = []seedAd{
	{
		company: "Northwind", title: "Backend Engineer (Go)", url: "https://jobs.northwind.example/backend-go",
		jobType: "full-time", source: "linkedin", recruiter: 0,
		path: []application.Status{application.StatusApplied, application.StatusScreening, application.StatusInterview},
	},
	{
		company: "Globex", title: "Platform Engineer", url: "https://careers.globex.example/platform",
		jobType: "full-time", source: "company site", recruiter: 1,
		path: []application.Status{application.StatusApplied, application.StatusRejected},
	},
	{
		company: "Initech", title: "Site Reliability Engineer", url: "https://initech.example/jobs/sre",
		jobType: "contract", source: "referral", recruiter: -1,
		path: []application.Status{application.StatusApplied},
	},
	{
		company: "Umbrella", title: "Data Engineer", url: "https://umbrella.example/careers/data",
		jobType: "full-time", source: "indeed", recruiter: -1,
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo recruiters, job ads and applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		svc, err := e.services(cmd.Context())
		if err != nil {
			return err
		}
		return seed(cmd.Context(), svc)
	},
}

// seed is safe to re-run: existing demo rows are detected by their unique
// keys and skipped.
func seed(ctx context.Context, svc *app.Services) error {
	_, err := svc.Auth.Signup(ctx, auth.CredentialsRequest{Email: demoEmail, Password: demoPassword})
	switch {
	case err == nil:
		fmt.Printf("Demo user created: %s / %s\n", demoEmail, demoPassword)
	case errors.Is(err, auth.ErrEmailAlreadyExists):
		fmt.Printf("Demo user exists: %s\n", demoEmail)
	default:
		return fmt.Errorf("creating demo user: %w", err)
	}

	var created int
	var recruiterIDs []string
	for _, ad := range seedAds {
		job, err := svc.JobAds.Create(ctx, jobad.JobAdRequest{
			CompanyName:       ad.company,
			JobTitle:          ad.title,
			JobDescription:    fmt.Sprintf("<p>%s is hiring a <strong>%s</strong>.</p>", ad.company, ad.title),
			PublishedAt:       "2024-03-01",
			JobType:           ad.jobType,
			Source:            ad.source,
			URL:               ad.url,
			SkillRequirements: []string{"Go", "SQL"},
			TechStack:         []string{"PostgreSQL", "Kubernetes"},
		})
		var conflict *apperr.ConflictError
		if errors.As(err, &conflict) {
			continue
		}
		if err != nil {
			return fmt.Errorf("creating job ad %s: %w", ad.url, err)
		}

		if ad.recruiter >= 0 {
			if recruiterIDs == nil {
				if recruiterIDs, err = seedRecruiterRows(ctx, svc); err != nil {
					return err
				}
			}
			if _, err := svc.JobAds.SetRecruiter(ctx, job.ID, &recruiterIDs[ad.recruiter]); err != nil {
				return fmt.Errorf("attaching recruiter to %s: %w", ad.url, err)
			}
		}

		appl, err := svc.Applications.Create(ctx, application.CreateRequest{JobAdID: job.ID})
		if err != nil {
			return fmt.Errorf("creating application for %s: %w", ad.url, err)
		}
		for _, status := range ad.path {
			if _, err := svc.Applications.AdvanceStatus(ctx, appl.ID, application.AdvanceRequest{Status: string(status)}); err != nil {
				return fmt.Errorf("advancing application %s to %s: %w", appl.ID, status, err)
			}
		}
		created++
	}

	fmt.Printf("Seed completed: job_ads=%d applications=%d\n", created, created)
	return nil
}

// seedRecruiterRows runs only once a demo job ad turns out to be new, so a
// second seed does not duplicate recruiters.
func seedRecruiterRows(ctx context.Context, svc *app.Services) ([]string, error) {
	ids := make([]string, 0, len(seedRecruiters))
	for _, req := range seedRecruiters {
		rec, err := svc.Recruiters.Create(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("creating recruiter %s: %w", req.Name, err)
		}
		ids = append(ids, rec.ID)
	}
	return ids, nil
}
