// Command seed loads a YAML catalog of demo users, courses and career paths
// into the database. Safe to re-run: courses are keyed by title and skipped
// when already present.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/edvance/edvance-backend/internal/app"
	"github.com/edvance/edvance-backend/internal/domain"
	"github.com/edvance/edvance-backend/internal/services"
)

type catalog struct {
	Users []struct {
		Email     string `yaml:"email"`
		FirstName string `yaml:"first_name"`
		LastName  string `yaml:"last_name"`
	} `yaml:"users"`
	Courses []struct {
		Title           string `yaml:"title"`
		Description     string `yaml:"description"`
		Category        string `yaml:"category"`
		Level           string `yaml:"level"`
		DurationMinutes int    `yaml:"duration_minutes"`
		Published       bool   `yaml:"published"`
		Modules         []struct {
			Title   string `yaml:"title"`
			Lessons []struct {
				Title   string `yaml:"title"`
				Content string `yaml:"content"`
			} `yaml:"lessons"`
		} `yaml:"modules"`
	} `yaml:"courses"`
	CareerPaths []struct {
		Slug        string   `yaml:"slug"`
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Courses     []string `yaml:"courses"` // course titles, in path order
	} `yaml:"career_paths"`
}

func main() {
	path := "seed.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Failed to read catalog %s: %v\n", path, err)
		os.Exit(1)
	}
	var cat catalog
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		fmt.Printf("Failed to parse catalog %s: %v\n", path, err)
		os.Exit(1)
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()
	log := application.Log.With("cmd", "seed")

	if err := seedCatalog(ctx, application, cat); err != nil {
		log.Error("Seed failed", "error", err)
		os.Exit(1)
	}
	log.Info("Seed complete", "users", len(cat.Users), "courses", len(cat.Courses), "career_paths", len(cat.CareerPaths))
}

func seedCatalog(ctx context.Context, application *app.App, cat catalog) error {
	log := application.Log.With("cmd", "seed")

	existing, err := application.Services.Hierarchy.ListCourses(ctx)
	if err != nil {
		return fmt.Errorf("list courses: %w", err)
	}
	courseByTitle := make(map[string]uuid.UUID, len(existing))
	for _, c := range existing {
		courseByTitle[c.Title] = c.ID
	}

	for _, u := range cat.Users {
		if err := seedUser(ctx, application, u.Email, u.FirstName, u.LastName); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}

	for _, c := range cat.Courses {
		if _, ok := courseByTitle[c.Title]; ok {
			log.Info("Course already present, skipping", "title", c.Title)
			continue
		}
		course, err := application.Services.Hierarchy.CreateCourse(ctx, services.CreateCourseInput{
			Title:           c.Title,
			Description:     c.Description,
			Category:        c.Category,
			Level:           c.Level,
			DurationMinutes: c.DurationMinutes,
			Published:       c.Published,
		})
		if err != nil {
			return fmt.Errorf("create course %s: %w", c.Title, err)
		}
		courseByTitle[c.Title] = course.ID

		for mi, m := range c.Modules {
			module, err := application.Services.Hierarchy.CreateModule(ctx, course.ID, m.Title, mi)
			if err != nil {
				return fmt.Errorf("create module %s/%s: %w", c.Title, m.Title, err)
			}
			for li, l := range m.Lessons {
				content := []byte(fmt.Sprintf(`{"body":%q}`, l.Content))
				if _, err := application.Services.Hierarchy.CreateLesson(ctx, module.ID, l.Title, li, content); err != nil {
					return fmt.Errorf("create lesson %s/%s/%s: %w", c.Title, m.Title, l.Title, err)
				}
			}
		}
	}

	return seedCareerPaths(ctx, application, cat, courseByTitle)
}

func seedUser(ctx context.Context, application *app.App, email, firstName, lastName string) error {
	_, err := application.Repos.User.Create(ctx, nil, []*domain.User{{
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}})
	if err != nil {
		// Unique index on email makes re-runs fail here; that is fine.
		application.Log.Warn("User not created (may already exist)", "email", email, "error", err)
	}
	return nil
}

func seedCareerPaths(ctx context.Context, application *app.App, cat catalog, courseByTitle map[string]uuid.UUID) error {
	log := application.Log.With("cmd", "seed")

	for _, p := range cat.CareerPaths {
		ids := make([]uuid.UUID, 0, len(p.Courses))
		for _, title := range p.Courses {
			id, ok := courseByTitle[title]
			if !ok {
				return fmt.Errorf("career path %s references unknown course %q", p.Slug, title)
			}
			ids = append(ids, id)
		}
		if _, err := application.Services.CareerPath.CreatePath(ctx, services.CreateCareerPathInput{
			Slug:        p.Slug,
			Name:        p.Name,
			Description: p.Description,
			CourseIDs:   ids,
		}); err != nil {
			log.Warn("Career path not created (may already exist)", "slug", p.Slug, "error", err)
		}
	}
	return nil
}
