package database

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the row shape of the users table.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64      `bun:"id,pk,autoincrement"`
	Name      string     `bun:"name,notnull"`
	Email     string     `bun:"email,notnull,unique"`
	Password  string     `bun:"password,notnull"`
	Status    string     `bun:"status,notnull,default:'active'"`
	LastLogin *time.Time `bun:"last_login"`
	CreatedAt time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
