package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Role represents an account role
type Role int

const (
	RoleCliente   Role = 0
	RoleMensajero Role = 1
	RoleAdmin     Role = 2
)

func (r Role) String() string {
	return [...]string{"cliente", "mensajero", "admin"}[r]
}

// ParseRole converts a string to a Role
func ParseRole(s string) (Role, error) {
	switch s {
	case "cliente":
		return RoleCliente, nil
	case "mensajero":
		return RoleMensajero, nil
	case "admin":
		return RoleAdmin, nil
	}
	return RoleCliente, fmt.Errorf("unknown role %q", s)
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*r = Role(i)
		return nil
	}
	switch str {
	case "cliente":
		*r = RoleCliente
	case "mensajero":
		*r = RoleMensajero
	case "admin":
		*r = RoleAdmin
	}
	return nil
}

func (r Role) Value() (driver.Value, error) {
	return int64(r), nil
}

func (r *Role) Scan(value interface{}) error {
	if value == nil {
		*r = RoleCliente
		return nil
	}
	switch v := value.(type) {
	case int64:
		*r = Role(v)
	case int:
		*r = Role(v)
	}
	return nil
}
