package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config stellend config
type Config struct {
	App     App       `json:"app"`
	DB      db.Config `json:"db"`
	Gateway Gateway   `json:"gateway"`
	Keeper  Keeper    `json:"keeper"`
	Admins  []string  `json:"admins"`
	Issuers []string  `json:"issuers"`
}

// IsAdmin check if the user is admin
func (c *Config) IsAdmin(userID string) bool {
	if len(c.Admins) <= 0 {
		return false
	}

	for _, a := range c.Admins {
		if a == userID {
			return true
		}
	}

	return false
}

// App app config
type App struct {
	// Secret hs256 key for api bearer tokens
	Secret   string `json:"secret"`
	Location string `json:"location"`
}

// Gateway token gateway endpoint
type Gateway struct {
	Endpoint string `json:"end_point"`
}

// Keeper price keeper config
type Keeper struct {
	Endpoint string   `json:"end_point"`
	Assets   []string `json:"assets"`
}
