package categories

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/store-mgmt/store-api/internal/shared"
)

// ParseID validates a category id.
func ParseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, shared.ErrInvalidID
	}
	return parsed, nil
}

// ParseIDs validates every id, failing on the first malformed one.
func ParseIDs(ids []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		parsed, err := ParseID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	return out, nil
}

// compileSearch returns the matcher for a listing search pattern, or nil
// when the pattern is empty.
func compileSearch(search string) (*regexp.Regexp, error) {
	if search == "" {
		return nil, nil
	}
	re, err := regexp.Compile("(?i)" + search)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", shared.ErrValidation, err)
	}
	return re, nil
}

func validateQuery(q ListQuery) error {
	if q.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative", shared.ErrValidation)
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", shared.ErrValidation)
	}
	_, err := compileSearch(q.Search)
	return err
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: category name is required", shared.ErrValidation)
	}
	return nil
}
