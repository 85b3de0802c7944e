package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yoockh/placementcell/internal/models"
	pgrepo "github.com/yoockh/placementcell/internal/repositories/postgres"
	"github.com/yoockh/placementcell/internal/utils"
)

// Clock returns the current time; nil means time.Now.
type Clock func() time.Time

func (c Clock) Now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// repoErr maps a repository error to a coded error, using notFound for
// utils.ErrNotFound.
func repoErr(op string, err error, notFound string) error {
	if errors.Is(err, utils.ErrNotFound) {
		return utils.E(utils.CodeNotFound, op, notFound, err)
	}
	return utils.E(utils.CodeInternal, op, "storage failure", err)
}

// activeStudent loads the student acting on their own records. Tokens stay
// valid until expiry, so deactivation is enforced here on every write.
func activeStudent(ctx context.Context, students pgrepo.StudentRepository, op, studentID string) (*models.Student, error) {
	if studentID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "student_id is required", nil)
	}
	st, err := students.GetByID(ctx, studentID)
	if err != nil {
		return nil, repoErr(op, err, "student not found")
	}
	if !st.IsActive {
		return nil, utils.E(utils.CodeForbidden, op, "account is deactivated", nil)
	}
	return st, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
