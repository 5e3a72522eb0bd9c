// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package studio

import (
	"testing"
	"time"

	"artstudio/internal/models"
)

func TestComputeStatsEmpty(t *testing.T) {
	st := ComputeStats(nil)
	if st.Total != 0 || st.FirstDate != nil {
		t.Errorf("empty stats: got %+v", st)
	}
	if len(st.PerDay) != 1 || st.PerDay[0].Day != "Today" || st.PerDay[0].Count != 0 {
		t.Errorf("PerDay: got %+v, want single Today: 0 bucket", st.PerDay)
	}
}

func TestComputeStats(t *testing.T) {
	mar7 := time.Date(2026, time.March, 7, 9, 0, 0, 0, time.UTC)
	mar8 := mar7.Add(24 * time.Hour)

	entries := []models.Entry{
		models.NewEntry("a", "", mar7),
		models.NewEntry("b", "https://example.com", mar8),
		models.NewEntry("c", "", mar7.Add(time.Hour)),
		models.NewEntry("d", "", mar8),
	}

	st := ComputeStats(entries)
	if st.Total != 4 {
		t.Errorf("Total: got %d, want 4", st.Total)
	}
	if st.FirstDate == nil || !st.FirstDate.Equal(mar7) {
		t.Errorf("FirstDate: got %v, want %v", st.FirstDate, mar7)
	}
	if st.Images != 3 || st.Links != 1 {
		t.Errorf("kinds: got %d images, %d links", st.Images, st.Links)
	}

	want := []DayCount{
		{Date: "2026-03-07", Day: "Mar 7", Count: 2},
		{Date: "2026-03-08", Day: "Mar 8", Count: 2},
	}
	if len(st.PerDay) != len(want) {
		t.Fatalf("PerDay: got %+v, want %+v", st.PerDay, want)
	}
	for i := range want {
		if st.PerDay[i] != want[i] {
			t.Errorf("PerDay[%d]: got %+v, want %+v", i, st.PerDay[i], want[i])
		}
	}
}

func TestComputeStatsSeparatesYears(t *testing.T) {
	lastYear := time.Date(2025, time.March, 7, 9, 0, 0, 0, time.UTC)
	thisYear := lastYear.AddDate(1, 0, 0)

	st := ComputeStats([]models.Entry{
		models.NewEntry("a", "", lastYear),
		models.NewEntry("b", "", thisYear),
	})

	if len(st.PerDay) != 2 {
		t.Fatalf("PerDay: got %+v, want two buckets", st.PerDay)
	}
	for i, want := range []string{"2025-03-07", "2026-03-07"} {
		if st.PerDay[i].Date != want || st.PerDay[i].Day != "Mar 7" || st.PerDay[i].Count != 1 {
			t.Errorf("PerDay[%d]: got %+v, want %s: 1", i, st.PerDay[i], want)
		}
	}
}
