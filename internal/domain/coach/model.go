package coach

import (
	"fmt"
	"strings"
)

// Coach is an optional, non-priced member of a fantasy team.
type Coach struct {
	ID       string
	Name     string
	ImageURL string
}

func (c Coach) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("coach id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("coach name is required")
	}

	return nil
}
