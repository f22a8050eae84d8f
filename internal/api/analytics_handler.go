// File path: internal/api/analytics_handler.go
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
)

type progressPoint struct {
	Date     string `json:"date"`
	Programs int    `json:"programs"`
	XP       int    `json:"xp"`
}

// handleProgressTimeline returns cumulative programs created and XP earned
// per week for the last N weeks. XP is read from the real ledger rather than
// estimated from step counts.
func (s *Server) handleProgressTimeline(w http.ResponseWriter, r *http.Request) {
	user := userID(chi.URLParam(r, "userID"))
	weeks, _ := strconv.Atoi(r.URL.Query().Get("weeks"))
	if weeks <= 0 {
		weeks = 8
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -7*weeks)

	programs, err := s.store.ListPrograms(r.Context(), user, "")
	if err != nil {
		writeStoreError(w, err)
		return
	}
	entries, err := s.store.XPEntriesSince(r.Context(), user, start)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	xpBefore, err := s.store.TotalXPBefore(r.Context(), user, start)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	programsBefore := 0
	for _, p := range programs {
		if p.CreatedAt.UTC().Before(start) {
			programsBefore++
		}
	}

	points := make([]progressPoint, 0, weeks)
	cumulativePrograms := programsBefore
	cumulativeXP := xpBefore
	for week := 0; week < weeks; week++ {
		weekStart := start.AddDate(0, 0, 7*week)
		weekEnd := weekStart.AddDate(0, 0, 7)

		for _, p := range programs {
			created := p.CreatedAt.UTC()
			if !created.Before(weekStart) && created.Before(weekEnd) {
				cumulativePrograms++
			}
		}
		for _, e := range entries {
			created := e.CreatedAt.UTC()
			if !created.Before(weekStart) && created.Before(weekEnd) {
				cumulativeXP += e.Points
			}
		}

		label := fmt.Sprintf("Week %d", week+1)
		switch week {
		case weeks - 1:
			label = "This Week"
		case weeks - 2:
			label = "Last Week"
		}
		points = append(points, progressPoint{Date: label, Programs: cumulativePrograms, XP: cumulativeXP})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": points})
}

type stakeholderPoint struct {
	Category string `json:"category"`
	High     int    `json:"high"`
	Medium   int    `json:"medium"`
	Low      int    `json:"low"`
}

var stakeholderCategories = []struct {
	name     string
	patterns []string
}{
	{"Teachers", []string{"teacher", "principal", "headmaster", "faculty"}},
	{"Parents", []string{"parent", "caregiver", "guardian", "family"}},
	{"Officials", []string{"officer", "official", "beo", "crc", "government", "panchayat"}},
	{"NGO Partners", []string{"ngo", "partner", "organization", "foundation"}},
	{"Students", []string{"student", "child", "learner", "youth"}},
}

// handleStakeholderStats groups stakeholders across all of a user's programs
// into fixed categories by name pattern, counted by priority.
func (s *Server) handleStakeholderStats(w http.ResponseWriter, r *http.Request) {
	user := userID(chi.URLParam(r, "userID"))
	programs, err := s.store.ListPrograms(r.Context(), user, "")
	if err != nil {
		writeStoreError(w, err)
		return
	}

	counts := make(map[string]*stakeholderPoint, len(stakeholderCategories))
	for _, c := range stakeholderCategories {
		counts[c.name] = &stakeholderPoint{Category: c.name}
	}
	for _, p := range programs {
		stakeholders, err := s.store.ListStakeholders(r.Context(), p.ID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		for _, sh := range stakeholders {
			point := counts[categorizeStakeholder(sh.Name)]
			switch strings.ToLower(sh.Priority) {
			case "high":
				point.High++
			case "low":
				point.Low++
			default:
				point.Medium++
			}
		}
	}

	data := make([]stakeholderPoint, 0, len(stakeholderCategories))
	for _, c := range stakeholderCategories {
		data = append(data, *counts[c.name])
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": data})
}

func categorizeStakeholder(name string) string {
	lower := strings.ToLower(name)
	for _, c := range stakeholderCategories {
		for _, pattern := range c.patterns {
			if strings.Contains(lower, pattern) {
				return c.name
			}
		}
	}
	return "NGO Partners"
}
