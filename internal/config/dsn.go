package config

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// DSNValue resolves the MySQL DSN: a literal `dsn` key wins, otherwise one is
// assembled from the structured database block.
func (c *AppConfig) DSNValue() string {
	if v := strings.TrimSpace(c.DSN); v != "" {
		return v
	}

	db := c.Database
	host := strings.TrimSpace(db.Host)
	if host == "" {
		host = defaultDBHost
	}
	port := db.Port
	if port == 0 {
		port = defaultDBPort
	}
	user := strings.TrimSpace(db.User)
	if user == "" {
		user = defaultDBUser
	}
	password := db.Password
	if password == "" {
		password = defaultDBPassword
	}
	name := strings.TrimSpace(db.Name)
	if name == "" {
		name = defaultDBName
	}
	charset := strings.TrimSpace(db.Charset)
	if charset == "" {
		charset = defaultDBCharset
	}

	params := map[string]string{"charset": charset}
	for k, v := range db.Params {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			params[k] = v
		}
	}

	mc := mysql.NewConfig()
	mc.User = user
	mc.Passwd = password
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", host, port)
	mc.DBName = name
	mc.ParseTime = true
	mc.Params = params
	return mc.FormatDSN()
}
