package models

import "strings"

type OfficialDifficulty string

const (
	DifficultyEasy   OfficialDifficulty = "Easy"
	DifficultyMedium OfficialDifficulty = "Medium"
	DifficultyHard   OfficialDifficulty = "Hard"
)

// ParseOfficialDifficulty accepts any casing of Easy/Medium/Hard.
func ParseOfficialDifficulty(s string) (OfficialDifficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, true
	case "medium":
		return DifficultyMedium, true
	case "hard":
		return DifficultyHard, true
	}
	return "", false
}

// Problem is a catalog entry. Read-only at request time.
type Problem struct {
	Slug               string             `json:"slug"`
	Title              string             `json:"title"`
	Tags               []string           `json:"tags"`
	OfficialDifficulty OfficialDifficulty `json:"official_difficulty"`
}

// HasTag reports whether the problem carries tag, ignoring case.
func (p Problem) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
