// Package eligibility decides whether a student's academic record admits them
// to a job. Evaluation is pure: no I/O, no clock.
package eligibility

import (
	"fmt"
	"strings"

	"github.com/yoockh/placementcell/internal/models"
)

// Profile is the slice of a student the rules look at.
type Profile struct {
	GPA          float64
	TenthMarks   *float64
	TwelfthMarks *float64
}

func ProfileOf(s *models.Student) Profile {
	if s == nil {
		return Profile{}
	}
	return Profile{GPA: s.GPA, TenthMarks: s.TenthMarks, TwelfthMarks: s.TwelfthMarks}
}

type Result struct {
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons,omitempty"`
}

// Evaluate applies the rule set. Missing marks count as 0. The first failing
// school cutoff short-circuits; otherwise the student is admitted when any
// enabled degree's cutoff is at or below their GPA.
//
// Branch lists, gender, PWD, backlog, UG% and open-for-placed fields are not
// consulted here.
func Evaluate(rules models.Eligibility, p Profile) Result {
	tenth := valueOr(p.TenthMarks)
	if rules.TenthPercentageCutoff > tenth {
		return Result{Reasons: []string{fmt.Sprintf("10th marks %.2f below cutoff %.2f", tenth, rules.TenthPercentageCutoff)}}
	}
	twelfth := valueOr(p.TwelfthMarks)
	if rules.TwelfthPercentageCutoff > twelfth {
		return Result{Reasons: []string{fmt.Sprintf("12th marks %.2f below cutoff %.2f", twelfth, rules.TwelfthPercentageCutoff)}}
	}

	var failed []string
	for _, d := range rules.DegreeRules() {
		if !d.Enabled {
			continue
		}
		if d.Cutoff <= p.GPA {
			return Result{Eligible: true}
		}
		failed = append(failed, fmt.Sprintf("%s cutoff %.2f", d.Degree, d.Cutoff))
	}
	if len(failed) == 0 {
		return Result{Reasons: []string{"job is not open to any degree program"}}
	}
	return Result{Reasons: []string{fmt.Sprintf("gpa %.2f below %s", p.GPA, strings.Join(failed, ", "))}}
}

// IsEligible is Evaluate reduced to its verdict.
func IsEligible(job *models.Job, student *models.Student) bool {
	if job == nil {
		return false
	}
	return Evaluate(job.Eligibility, ProfileOf(student)).Eligible
}

func valueOr(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
