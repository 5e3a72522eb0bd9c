// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package studio

import (
	"time"

	"artstudio/internal/models"
)

const (
	// dateLayout keys per-day buckets.
	dateLayout = "2006-01-02"

	// dayLayout labels them, e.g. "Mar 7".
	dayLayout = "Jan 2"
)

// DayCount is the number of entries added on one calendar day.
type DayCount struct {
	Date  string `json:"date,omitempty"`
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Stats summarizes portfolio activity.
type Stats struct {
	Total     int        `json:"total"`
	FirstDate *time.Time `json:"firstDate"`
	PerDay    []DayCount `json:"perDay"`
	Images    int        `json:"images"`
	Links     int        `json:"links"`
}

// ComputeStats counts entries per day in order of first appearance. An
// empty portfolio yields a single "Today" bucket with a zero count.
func ComputeStats(entries []models.Entry) Stats {
	st := Stats{Total: len(entries)}
	if len(entries) == 0 {
		st.PerDay = []DayCount{{Day: "Today", Count: 0}}
		return st
	}

	first := entries[0].CreatedAt
	st.FirstDate = &first

	index := make(map[string]int)
	for _, e := range entries {
		if e.IsLink() {
			st.Links++
		} else {
			st.Images++
		}

		date := e.CreatedAt.Format(dateLayout)
		if i, ok := index[date]; ok {
			st.PerDay[i].Count++
			continue
		}
		index[date] = len(st.PerDay)
		st.PerDay = append(st.PerDay, DayCount{Date: date, Day: e.CreatedAt.Format(dayLayout), Count: 1})
	}
	return st
}
