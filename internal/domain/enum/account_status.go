package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AccountStatus represents the lifecycle state of an account.
// Accounts start pending until an administrator issues credentials.
type AccountStatus int

const (
	AccountStatusPendiente  AccountStatus = 0
	AccountStatusActivo     AccountStatus = 1
	AccountStatusSuspendido AccountStatus = 2
)

func (s AccountStatus) String() string {
	return [...]string{"pendiente", "activo", "suspendido"}[s]
}

// ParseAccountStatus converts a string to an AccountStatus
func ParseAccountStatus(s string) (AccountStatus, error) {
	switch s {
	case "pendiente":
		return AccountStatusPendiente, nil
	case "activo":
		return AccountStatusActivo, nil
	case "suspendido":
		return AccountStatusSuspendido, nil
	}
	return AccountStatusPendiente, fmt.Errorf("unknown account status %q", s)
}

func (s AccountStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *AccountStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = AccountStatus(i)
		return nil
	}
	switch str {
	case "pendiente":
		*s = AccountStatusPendiente
	case "activo":
		*s = AccountStatusActivo
	case "suspendido":
		*s = AccountStatusSuspendido
	}
	return nil
}

func (s AccountStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *AccountStatus) Scan(value interface{}) error {
	if value == nil {
		*s = AccountStatusPendiente
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = AccountStatus(v)
	case int:
		*s = AccountStatus(v)
	}
	return nil
}
