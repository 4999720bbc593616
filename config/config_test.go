package config

import (
	"errors"
	"io/ioutil"
	"path/filepath"
	"testing"

	"fpgrowth/services/disk"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseFlagsDefaults(t *testing.T) {
	c, err := ParseFlags("test", []string{})
	assert.Nil(t, err)
	assert.Equal(t, 3, c.Support)
	assert.Equal(t, 0.20, c.Threshold)
	assert.Equal(t, "test.in", c.Input)
	assert.Equal(t, "fpgrowth-results.out", c.Output)
	assert.False(t, c.Verbose)
	assert.Equal(t, 1, c.Workers)
	assert.Nil(t, c.Validate())
}

func TestParseFlagsShortAndLong(t *testing.T) {
	for _, args := range [][]string{
		{"-s", "5", "-t", "0.5", "-i", "in.txt", "-o", "out.txt", "-v"},
		{"--support", "5", "--treshold", "0.5", "--input", "in.txt", "--output", "out.txt", "--verbose"},
		{"--support=5", "--threshold=0.5", "--input=in.txt", "--output=out.txt", "--verbose=true"},
	} {
		c, err := ParseFlags("test", args)
		assert.Nil(t, err, "%v", args)
		assert.Equal(t, 5, c.Support)
		assert.Equal(t, 0.5, c.Threshold)
		assert.Equal(t, "in.txt", c.Input)
		assert.Equal(t, "out.txt", c.Output)
		assert.True(t, c.Verbose)
	}
}

func TestParseFlagsRejectsMalformedValues(t *testing.T) {
	for _, args := range [][]string{
		{"-s", "three"},
		{"-t", "high"},
		{"--unknown"},
		{"extra"},
	} {
		_, err := ParseFlags("test", args)
		assert.NotNil(t, err, "%v", args)
	}
}

func TestResolutionOrder(t *testing.T) {
	file := filepath.Join(t.TempDir(), "conf.yaml")
	err := ioutil.WriteFile(file, []byte("support: 7\ninput: from_file.in\nworkers: 2\ndb:\n  dialect: postgres\n  port: 5432\n"), 0644)
	assert.Nil(t, err)

	t.Setenv("FPGROWTH_INPUT", "from_env.in")
	t.Setenv("FPGROWTH_DB_HOST", "db.local")

	c, err := ParseFlags("test", []string{"--config", file, "--workers", "4"})
	assert.Nil(t, err)
	assert.Equal(t, 7, c.Support, "file overrides default")
	assert.Equal(t, "from_env.in", c.Input, "env overrides file")
	assert.Equal(t, 4, c.Workers, "flag overrides file")
	assert.Equal(t, "postgres", c.DBInfo.Dialect)
	assert.Equal(t, "db.local", c.DBInfo.Host)
	assert.Equal(t, 5432, c.DBInfo.Port)
	assert.Equal(t, "transactions", c.DBInfo.Table)
}

func TestConfigFileErrors(t *testing.T) {
	_, err := ParseFlags("test", []string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.NotNil(t, err)

	file := filepath.Join(t.TempDir(), "conf.yaml")
	assert.Nil(t, ioutil.WriteFile(file, []byte("supprot: 2\n"), 0644))
	_, err = ParseFlags("test", []string{"--config", file})
	assert.NotNil(t, err, "unknown keys are rejected")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Configuration)
	}{
		{"zero support", func(c *Configuration) { c.Support = 0 }},
		{"negative support", func(c *Configuration) { c.Support = -2 }},
		{"env", func(c *Configuration) { c.Env = "qa" }},
		{"format", func(c *Configuration) { c.Format = "xml" }},
		{"storage", func(c *Configuration) { c.Storage = "ftp" }},
		{"bucket", func(c *Configuration) { c.Storage = StorageGCS }},
		{"source", func(c *Configuration) { c.Source = "kafka" }},
		{"dialect", func(c *Configuration) { c.Source = SourceSQL; c.DBInfo.Dialect = "oracle" }},
		{"workers", func(c *Configuration) { c.Workers = -1 }},
		{"output", func(c *Configuration) { c.Output = "" }},
		{"run id", func(c *Configuration) { c.RunID = "a/b" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.modify(c)
			err := c.Validate()
			assert.True(t, errors.Is(err, ErrInvalidConfig), "%v", err)
		})
	}

	c := Default()
	c.Storage = StorageS3
	c.BucketName = "bucket"
	assert.Nil(t, c.Validate())
}

func TestDSN(t *testing.T) {
	db := DBConf{Dialect: "postgres", Host: "h", Port: 5432, User: "u", Name: "n", Password: "p"}
	assert.Equal(t, "host=h port=5432 user=u dbname=n password=p sslmode=disable", db.DSN())
	db.Dialect = "mysql"
	assert.Equal(t, "u:p@tcp(h:5432)/n?charset=utf8mb4&parseTime=True", db.DSN())
	db.Dialect = "sqlite3"
	assert.Equal(t, "n", db.DSN())
}

func TestInitConfAndFileManager(t *testing.T) {
	c := Default()
	c.Support = 0
	assert.NotNil(t, InitConf(c))

	c = Default()
	c.BaseDir = t.TempDir()
	assert.Nil(t, InitConf(c))
	assert.True(t, c.IsDevelopment())
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	c.Env = PRODUCTION
	InitLogging(c)
	assert.False(t, c.IsDevelopment())
	assert.Equal(t, log.InfoLevel, log.GetLevel())
	c.Verbose = true
	InitLogging(c)
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	fm, err := NewFileManager(c)
	assert.Nil(t, err)
	assert.IsType(t, &disk.DiskDriver{}, fm)
	assert.IsType(t, &disk.DiskDriver{}, NewLocalFileManager(c))
}

func TestOpenDBSqlite(t *testing.T) {
	c := Default()
	c.Source = SourceSQL
	c.DBInfo.Name = ":memory:"
	db, err := OpenDB(c)
	assert.Nil(t, err)
	assert.Nil(t, db.Close())
}
