package service

import (
	"testing"

	"github.com/careerfindr/careerfindr-api/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name                string
		jobSkills           []string
		jobExperience       string
		candidateSkills     []string
		candidateExperience string
		want                int
	}{
		{
			name:                "full match",
			jobSkills:           []string{"Go", "Postgres"},
			jobExperience:       model.ExperienceMid,
			candidateSkills:     []string{"Go", "Postgres"},
			candidateExperience: model.ExperienceMid,
			want:                100,
		},
		{
			name:                "no overlap at all",
			jobSkills:           []string{"Go"},
			jobExperience:       model.ExperienceSenior,
			candidateSkills:     []string{"PHP"},
			candidateExperience: model.ExperienceEntry,
			want:                0,
		},
		{
			name:                "half the skills plus exact experience",
			jobSkills:           []string{"React", "Node"},
			jobExperience:       model.ExperienceEntry,
			candidateSkills:     []string{"react", "Python"},
			candidateExperience: model.ExperienceEntry,
			want:                70,
		},
		{
			name:                "half the skills and no experience match",
			jobSkills:           []string{"React", "Node"},
			jobExperience:       model.ExperienceSenior,
			candidateSkills:     []string{"react", "python"},
			candidateExperience: model.ExperienceEntry,
			want:                30,
		},
		{
			name:                "half the skills with adjacent experience",
			jobSkills:           []string{"React", "Node"},
			jobExperience:       model.ExperienceSenior,
			candidateSkills:     []string{"react", "python"},
			candidateExperience: model.ExperienceMid,
			want:                50,
		},
		{
			name:                "mid and senior earn half experience credit",
			jobSkills:           []string{"Go"},
			jobExperience:       model.ExperienceMid,
			candidateSkills:     []string{"Go"},
			candidateExperience: model.ExperienceSenior,
			want:                80,
		},
		{
			name:                "senior job with mid candidate is symmetric",
			jobSkills:           []string{"Go"},
			jobExperience:       model.ExperienceSenior,
			candidateSkills:     []string{"Go"},
			candidateExperience: model.ExperienceMid,
			want:                80,
		},
		{
			name:                "entry is not adjacent to senior",
			jobSkills:           []string{"Go"},
			jobExperience:       model.ExperienceEntry,
			candidateSkills:     []string{"Go"},
			candidateExperience: model.ExperienceSenior,
			want:                60,
		},
		{
			name:                "case and whitespace are ignored",
			jobSkills:           []string{" Go ", "POSTGRES"},
			jobExperience:       model.ExperienceEntry,
			candidateSkills:     []string{"go", "postgres "},
			candidateExperience: model.ExperienceEntry,
			want:                100,
		},
		{
			name:                "duplicate candidate skills count once",
			jobSkills:           []string{"Go", "Postgres", "Docker"},
			jobExperience:       "",
			candidateSkills:     []string{"Go", "go", "GO"},
			candidateExperience: model.ExperienceMid,
			want:                20,
		},
		{
			name:                "job with no required skills scores zero on skills",
			jobSkills:           nil,
			jobExperience:       model.ExperienceMid,
			candidateSkills:     []string{"Go", "Postgres"},
			candidateExperience: model.ExperienceMid,
			want:                40,
		},
		{
			name:                "missing experience on either side earns nothing",
			jobSkills:           []string{"Go"},
			jobExperience:       model.ExperienceMid,
			candidateSkills:     []string{"Go"},
			candidateExperience: "",
			want:                60,
		},
		{
			name:                "one of three skills rounds to nearest",
			jobSkills:           []string{"Go", "Postgres", "Docker"},
			jobExperience:       model.ExperienceEntry,
			candidateSkills:     []string{"Docker"},
			candidateExperience: model.ExperienceEntry,
			want:                60, // 20 + 40
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchScore(tt.jobSkills, tt.jobExperience, tt.candidateSkills, tt.candidateExperience)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
		})
	}
}

func TestMatchScoreOrderInvariant(t *testing.T) {
	jobSkills := []string{"Go", "Postgres", "Docker", "Kubernetes"}
	candidate := []string{"docker", "go"}

	base := MatchScore(jobSkills, model.ExperienceMid, candidate, model.ExperienceMid)

	shuffled := []string{"Kubernetes", "Docker", "Go", "Postgres"}
	assert.Equal(t, base, MatchScore(shuffled, model.ExperienceMid, candidate, model.ExperienceMid))

	reversed := []string{"go", "docker"}
	assert.Equal(t, base, MatchScore(jobSkills, model.ExperienceMid, reversed, model.ExperienceMid))
}
