package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ApplicationStatus represents the review state of a courier application
type ApplicationStatus int

const (
	ApplicationStatusPendiente ApplicationStatus = 0
	ApplicationStatusAprobada  ApplicationStatus = 1
	ApplicationStatusRechazada ApplicationStatus = 2
)

func (s ApplicationStatus) String() string {
	return [...]string{"pendiente", "aprobada", "rechazada"}[s]
}

// ParseApplicationStatus converts a string to an ApplicationStatus
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	switch s {
	case "pendiente":
		return ApplicationStatusPendiente, nil
	case "aprobada":
		return ApplicationStatusAprobada, nil
	case "rechazada":
		return ApplicationStatusRechazada, nil
	}
	return ApplicationStatusPendiente, fmt.Errorf("unknown application status %q", s)
}

func (s ApplicationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ApplicationStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ApplicationStatus(i)
		return nil
	}
	switch str {
	case "pendiente":
		*s = ApplicationStatusPendiente
	case "aprobada":
		*s = ApplicationStatusAprobada
	case "rechazada":
		*s = ApplicationStatusRechazada
	}
	return nil
}

func (s ApplicationStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ApplicationStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ApplicationStatusPendiente
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ApplicationStatus(v)
	case int:
		*s = ApplicationStatus(v)
	}
	return nil
}
