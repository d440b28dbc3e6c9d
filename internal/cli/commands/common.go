package commands

import (
	"fmt"
	"strconv"

	"github.com/LT1923/4c2025/internal/models"
)

// parseID parses a positive photo or album id from an argument
func parseID(kind, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, arg)
	}
	return id, nil
}

// check turns a failed result into an error prefixed with what was attempted
func check(res models.Result, action string) error {
	if !res.Success {
		return fmt.Errorf("%s: %s", action, res.Message)
	}
	return nil
}
