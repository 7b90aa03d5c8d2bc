package model

import "time"

// Config entry names used throughout the app
const (
	ConfigEnableAPI = "is_enable_api"
)

// Config is a generic name/value settings row used for site branding
// and feature flags
type Config struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	Value     string    `gorm:"size:1000" json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Config) TableName() string {
	return "configs"
}

// All returns every model in migration order
func All() []any {
	return []any{&Config{}, &Album{}, &Pic{}, &Token{}}
}

// TableInfo names a table together with its single primary key column.
// The bulk SQL pipeline uses it for dumping and for resynchronizing
// sequences after an import.
type TableInfo struct {
	Name string
	PK   string
}

// Tables lists the full relational schema
func Tables() []TableInfo {
	return []TableInfo{
		{Name: "configs", PK: "id"},
		{Name: "albums", PK: "aid"},
		{Name: "pics", PK: "pid"},
		{Name: "tokens", PK: "tid"},
	}
}
