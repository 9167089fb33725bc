package main

import (
	"context"
	"fmt"
	"time"

	"github.com/placenet/placement-backend/internal/config"
	"github.com/placenet/placement-backend/internal/database"
	"github.com/placenet/placement-backend/internal/logger"
	"github.com/placenet/placement-backend/internal/model"
	"github.com/placenet/placement-backend/internal/repository"
)

// Seeds a demo job catalog and course catalog for local development.
// Idempotent enough for dev use: re-running inserts duplicates, so run
// against a fresh database.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	jobRepo := repository.NewJobRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)

	// Jobs need a posting admin. Use the first admin account found.
	var adminID int
	err = pool.QueryRow(ctx,
		`SELECT id FROM users WHERE role = 'admin' ORDER BY id LIMIT 1`).Scan(&adminID)
	if err != nil {
		log.Fatal().Err(err).Msg("No admin account found, run create-admin first")
	}

	fmt.Println("=== Seeding Demo Jobs ===")

	jobs := []model.Job{
		{
			CompanyName:         "Infomatics Labs",
			JobTitle:            "Graduate Software Engineer",
			Description:         "Backend services team, Go and PostgreSQL.",
			EligibilityCGPA:     7.0,
			EligibilityBranches: "CSE,ISE",
			MaxBacklogs:         0,
			SalaryPackage:       "8 LPA",
			JobType:             model.JobTypeFullTime,
			LastDate:            time.Now().AddDate(0, 1, 0),
		},
		{
			CompanyName:         "Quantyx Analytics",
			JobTitle:            "Data Engineering Intern",
			Description:         "Six month internship with PPO track.",
			EligibilityCGPA:     6.5,
			EligibilityBranches: "all",
			MaxBacklogs:         2,
			SalaryPackage:       "30k/month",
			JobType:             model.JobTypeInternship,
			LastDate:            time.Now().AddDate(0, 0, 14),
		},
		{
			CompanyName:         "NetServe Systems",
			JobTitle:            "Site Reliability Engineer",
			EligibilityCGPA:     8.0,
			EligibilityBranches: "CSE,ECE,ISE",
			MaxBacklogs:         0,
			SalaryPackage:       "12 LPA",
			JobType:             model.JobTypeFullTime,
			LastDate:            time.Now().AddDate(0, 2, 0),
		},
	}

	for i := range jobs {
		jobs[i].Status = model.JobStatusActive
		jobs[i].PostedBy = adminID
		if err := jobRepo.Create(ctx, &jobs[i]); err != nil {
			log.Fatal().Err(err).Str("company", jobs[i].CompanyName).Msg("Failed to seed job")
		}
		fmt.Printf("  job %d: %s / %s\n", jobs[i].ID, jobs[i].CompanyName, jobs[i].JobTitle)
	}

	fmt.Println("=== Seeding Demo Courses ===")

	courses := []model.Course{
		{
			Title:         "Data Structures Crash Course",
			Category:      model.CourseCategoryProgramming,
			Description:   "Arrays to graphs with interview-style problems.",
			Content:       "Module 1: Arrays and Strings\nModule 2: Linked Lists\nModule 3: Trees and Graphs",
			DurationHours: 40,
		},
		{
			Title:         "Quantitative Aptitude",
			Category:      model.CourseCategoryAptitude,
			Description:   "Speed math, ratios, and logical reasoning drills.",
			Content:       "Module 1: Number Systems\nModule 2: Time and Work\nModule 3: Logical Puzzles",
			DurationHours: 25,
		},
		{
			Title:         "System Design Primer",
			Category:      model.CourseCategoryProgramming,
			Description:   "Scaling, caching, and API design fundamentals.",
			Content:       "Module 1: Load Balancing\nModule 2: Caching\nModule 3: Data Partitioning",
			DurationHours: 30,
		},
	}

	for i := range courses {
		if err := courseRepo.Create(ctx, &courses[i]); err != nil {
			log.Fatal().Err(err).Str("title", courses[i].Title).Msg("Failed to seed course")
		}
		fmt.Printf("  course %d: %s\n", courses[i].ID, courses[i].Title)
	}

	fmt.Println("Done.")
}
