package service

import (
	"math"
	"strings"

	"github.com/careerfindr/careerfindr-api/internal/model"
)

const (
	skillWeight      = 60.0
	experienceWeight = 40.0
)

// MatchScore computes a 0-100 compatibility score between a job's
// requirements and a candidate's profile.
//
// Skills contribute up to 60 points: the share of the job's required skills
// the candidate has, matched case-insensitively with no partial credit. The
// denominator is max(len(jobSkills), 1), so a job listing no required skills
// contributes 0 from the skills component for every candidate.
//
// Experience contributes up to 40 points: 40 for an exact level match, 20 for
// the Mid Level / Senior Level adjacency in either direction, 0 otherwise.
// Missing levels never match.
//
// Scores are never stored; callers recompute from current documents.
func MatchScore(jobSkills []string, jobExperience string, candidateSkills []string, candidateExperience string) int {
	required := make(map[string]struct{}, len(jobSkills))
	for _, skill := range jobSkills {
		key := normalizeSkill(skill)
		if key != "" {
			required[key] = struct{}{}
		}
	}

	matching := make(map[string]struct{})
	for _, skill := range candidateSkills {
		key := normalizeSkill(skill)
		if _, ok := required[key]; ok {
			matching[key] = struct{}{}
		}
	}

	denominator := len(required)
	if denominator < 1 {
		denominator = 1
	}
	skillScore := float64(len(matching)) / float64(denominator) * skillWeight

	return int(math.Round(skillScore + experienceScore(jobExperience, candidateExperience)))
}

func experienceScore(jobLevel, candidateLevel string) float64 {
	if jobLevel == "" || candidateLevel == "" {
		return 0
	}
	if jobLevel == candidateLevel {
		return experienceWeight
	}
	if isMidSeniorPair(jobLevel, candidateLevel) {
		return experienceWeight / 2
	}
	return 0
}

// isMidSeniorPair reports the one adjacency worth half credit; Entry is never
// adjacent to Senior Level.
func isMidSeniorPair(a, b string) bool {
	return (a == model.ExperienceMid && b == model.ExperienceSenior) ||
		(a == model.ExperienceSenior && b == model.ExperienceMid)
}

func normalizeSkill(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
