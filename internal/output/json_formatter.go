package output

import (
	"encoding/json"

	"github.com/rpgo/iit-withholding/internal/domain"
)

// JSONFormatter serializes the schedule as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string      { return "json" }
func (j JSONFormatter) Extension() string { return "json" }

func (j JSONFormatter) Format(schedule *domain.Schedule) ([]byte, error) {
	return json.MarshalIndent(schedule, "", "  ")
}
