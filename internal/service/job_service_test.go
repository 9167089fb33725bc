package service

import (
	"testing"

	"github.com/placenet/placement-backend/internal/model"
)

func TestEligible(t *testing.T) {
	student := func(cgpa float64, backlogs int, branch string) *model.User {
		return &model.User{CGPA: cgpa, Backlogs: backlogs, Branch: branch}
	}
	job := func(cgpa float64, maxBacklogs int, branches string) *model.Job {
		return &model.Job{EligibilityCGPA: cgpa, MaxBacklogs: maxBacklogs, EligibilityBranches: branches}
	}

	tests := []struct {
		name    string
		student *model.User
		job     *model.Job
		want    bool
	}{
		{
			name:    "meets all criteria",
			student: student(8.5, 0, "CSE"),
			job:     job(7.0, 0, "CSE,ISE"),
			want:    true,
		},
		{
			name:    "cgpa exactly at cutoff",
			student: student(7.0, 0, "CSE"),
			job:     job(7.0, 0, "CSE"),
			want:    true,
		},
		{
			name:    "cgpa below cutoff",
			student: student(6.9, 0, "CSE"),
			job:     job(7.0, 0, "CSE"),
			want:    false,
		},
		{
			name:    "backlogs at limit",
			student: student(8.0, 2, "CSE"),
			job:     job(7.0, 2, "CSE"),
			want:    true,
		},
		{
			name:    "backlogs over limit",
			student: student(8.0, 3, "CSE"),
			job:     job(7.0, 2, "CSE"),
			want:    false,
		},
		{
			name:    "branch not in list",
			student: student(9.0, 0, "MECH"),
			job:     job(7.0, 0, "CSE,ISE"),
			want:    false,
		},
		{
			name:    "branch match is case insensitive",
			student: student(9.0, 0, "cse"),
			job:     job(7.0, 0, "CSE,ISE"),
			want:    true,
		},
		{
			name:    "branch list with spaces",
			student: student(9.0, 0, "ISE"),
			job:     job(7.0, 0, "CSE, ISE, ECE"),
			want:    true,
		},
		{
			name:    "all branches keyword",
			student: student(7.5, 0, "MECH"),
			job:     job(7.0, 0, "all"),
			want:    true,
		},
		{
			name:    "empty branch list admits everyone",
			student: student(7.5, 0, "MECH"),
			job:     job(7.0, 0, ""),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eligible(tt.student, tt.job); got != tt.want {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
		})
	}
}
