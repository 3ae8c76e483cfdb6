package service

import (
	"fmt"
	"html"
	"log"
	"os"
	"strings"
	"time"

	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

// SearchService keeps the job and course indexes in sync and issues per-role
// tenant tokens so clients query Meilisearch directly.
type SearchService interface {
	IndexJob(job *model.JobPosting) error
	DeleteJob(id string) error
	IndexCourse(course *model.Course, facultyName string) error
	DeleteCourse(id string) error
	GenerateSearchToken(userRole string) (string, error)
}

type searchService struct {
	client        meilisearch.ServiceManager
	masterKey     string
	signingKeyUID string
	signingKey    string
	sanitizer     *bluemonday.Policy
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	masterKey := os.Getenv("MEILI_MASTER_KEY")
	if masterKey == "" {
		log.Println("WARNING: MEILI_MASTER_KEY is not set.")
	}

	s := &searchService{
		client:    client,
		masterKey: masterKey,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	s.initSigningKey()
	return s
}

func (s *searchService) initIndexes() {
	jobFilterable := []any{"experience_level", "location", "is_active", "skills"}
	if _, err := s.client.Index("jobs").UpdateFilterableAttributes(&jobFilterable); err != nil {
		log.Printf("Failed to update jobs filterable attributes: %v", err)
	}

	jobSortable := []string{"created_at", "views"}
	if _, err := s.client.Index("jobs").UpdateSortableAttributes(&jobSortable); err != nil {
		log.Printf("Failed to update jobs sortable attributes: %v", err)
	}

	courseFilterable := []any{"faculty_id", "level"}
	if _, err := s.client.Index("courses").UpdateFilterableAttributes(&courseFilterable); err != nil {
		log.Printf("Failed to update courses filterable attributes: %v", err)
	}

	courseSortable := []string{"created_at"}
	if _, err := s.client.Index("courses").UpdateSortableAttributes(&courseSortable); err != nil {
		log.Printf("Failed to update courses sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

func (s *searchService) initSigningKey() {
	resp, err := s.client.GetKeys(&meilisearch.KeysQuery{Limit: 20})
	if err != nil {
		log.Printf("Failed to get meilisearch keys: %v", err)
		return
	}

	for _, key := range resp.Results {
		if key.Name == "TenantTokenSigner" {
			s.signingKeyUID = key.UID
			s.signingKey = key.Key
			log.Println("Found existing Meilisearch signing key")
			return
		}
	}

	expiry := time.Now().AddDate(100, 0, 0)

	key, err := s.client.CreateKey(&meilisearch.Key{
		Description: "Key to sign tenant tokens",
		Name:        "TenantTokenSigner",
		Actions:     []string{"search"},
		Indexes:     []string{"jobs", "courses"},
		ExpiresAt:   expiry,
	})
	if err != nil {
		log.Printf("Failed to create signing key: %v", err)
		return
	}

	s.signingKeyUID = key.UID
	s.signingKey = key.Key
	log.Println("Created new Meilisearch signing key")
}

type meiliJobDoc struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Skills          []string `json:"skills"`
	ExperienceLevel string   `json:"experience_level"`
	Location        string   `json:"location"`
	IsActive        bool     `json:"is_active"`
	Views           int      `json:"views"`
	CreatedAt       int64    `json:"created_at"`
	CompanyName     string   `json:"company_name"`
}

type meiliCourseDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	FacultyID   string `json:"faculty_id"`
	FacultyName string `json:"faculty_name"`
	Level       string `json:"level"`
	CreatedAt   int64  `json:"created_at"`
}

func (s *searchService) cleanContentForIndex(content string) string {
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)

	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *searchService) IndexJob(job *model.JobPosting) error {
	doc := meiliJobDoc{
		ID:              job.ID.String(),
		Title:           job.Title,
		Description:     s.cleanContentForIndex(job.Description),
		Skills:          job.Skills,
		ExperienceLevel: job.ExperienceLevel,
		IsActive:        job.IsActive,
		Views:           job.Views,
		CreatedAt:       job.CreatedAt.Unix(),
	}
	if job.Location != nil {
		doc.Location = *job.Location
	}
	if job.Company != nil {
		doc.CompanyName = job.Company.FullName
	}

	task, err := s.client.Index("jobs").AddDocuments([]meiliJobDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed job %s, task id: %d", job.ID, task.TaskUID)
	return nil
}

func (s *searchService) DeleteJob(id string) error {
	_, err := s.client.Index("jobs").DeleteDocument(id)
	return err
}

func (s *searchService) IndexCourse(course *model.Course, facultyName string) error {
	doc := meiliCourseDoc{
		ID:          course.ID.String(),
		Name:        course.Name,
		FacultyID:   course.FacultyID.String(),
		FacultyName: facultyName,
		CreatedAt:   course.CreatedAt.Unix(),
	}
	if course.Description != nil {
		doc.Description = s.cleanContentForIndex(*course.Description)
	}
	if course.Level != nil {
		doc.Level = *course.Level
	}

	task, err := s.client.Index("courses").AddDocuments([]meiliCourseDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed course %s, task id: %d", course.ID, task.TaskUID)
	return nil
}

func (s *searchService) DeleteCourse(id string) error {
	_, err := s.client.Index("courses").DeleteDocument(id)
	return err
}

// GenerateSearchToken issues a tenant token scoped to the caller's role:
// everyone searches courses, but only active jobs are visible to
// non-company roles.
func (s *searchService) GenerateSearchToken(userRole string) (string, error) {
	if s.signingKeyUID == "" || s.signingKey == "" {
		return "", fmt.Errorf("signing key not initialized")
	}

	searchRules := map[string]any{
		"jobs":    map[string]any{"filter": "is_active = true"},
		"courses": map[string]any{},
	}

	switch userRole {
	case model.RoleAdmin, model.RoleCompany:
		searchRules["jobs"] = map[string]any{"filter": nil}
	}

	token, err := s.client.GenerateTenantToken(s.signingKeyUID, searchRules, &meilisearch.TenantTokenOptions{
		APIKey:    s.signingKey,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

func strPtr(s string) *string {
	return &s
}
