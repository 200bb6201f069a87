// Package kernel holds small shared types used across bounded contexts:
// identifiers, the per-request auth context, and pagination containers.
package kernel

type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (u UserID) String() string  { return string(u) }
func (u UserID) IsEmpty() bool   { return string(u) == "" }
