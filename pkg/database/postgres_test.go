package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: "5433", User: "pos", Password: "secret", DBName: "posdb", SSLMode: "require"}

	assert.Equal(t, "host=db port=5433 user=pos password=secret dbname=posdb sslmode=require", cfg.DSN())
}
