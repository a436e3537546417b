package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateOrderID builds a unique transaction reference for a user's ledger row.
func GenerateOrderID(username string) string {
	short := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("SAT-%s-%s", short, strings.ToLower(strings.TrimSpace(username)))
}
