package config

import (
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"fpgrowth/filestore"
	"fpgrowth/report"
	"fpgrowth/services/disk"
	"fpgrowth/services/gcstorage"
	"fpgrowth/services/s3"
	"fpgrowth/transaction"
	U "fpgrowth/util"

	"github.com/jinzhu/gorm"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const (
	DEVELOPMENT = "development"
	STAGING     = "staging"
	PRODUCTION  = "production"

	StorageDisk = "disk"
	StorageGCS  = "gcs"
	StorageS3   = "s3"

	SourceFile = "file"
	SourceSQL  = "sql"

	envPrefix = "FPGROWTH"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type DBConf struct {
	Dialect  string `yaml:"dialect" envconfig:"DIALECT"`
	Host     string `yaml:"host" envconfig:"HOST"`
	Port     int    `yaml:"port" envconfig:"PORT"`
	User     string `yaml:"user" envconfig:"USER"`
	Name     string `yaml:"name" envconfig:"NAME"`
	Password string `yaml:"password" envconfig:"PASSWORD"`
	Table    string `yaml:"table" envconfig:"TABLE"`
}

// DSN builds the connection string gorm expects for the dialect. For sqlite3
// Name is the database file.
func (c DBConf) DSN() string {
	switch c.Dialect {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s password=%s sslmode=disable",
			c.Host, c.Port, c.User, c.Name, c.Password)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True",
			c.User, c.Password, c.Host, c.Port, c.Name)
	default:
		return c.Name
	}
}

type Configuration struct {
	Env        string  `yaml:"env" envconfig:"ENV"`
	Support    int     `yaml:"support" envconfig:"SUPPORT"`
	Threshold  float64 `yaml:"threshold" envconfig:"THRESHOLD"`
	Input      string  `yaml:"input" envconfig:"INPUT"`
	Output     string  `yaml:"output" envconfig:"OUTPUT"`
	Verbose    bool    `yaml:"verbose" envconfig:"VERBOSE"`
	Format     string  `yaml:"format" envconfig:"FORMAT"`
	Workers    int     `yaml:"workers" envconfig:"WORKERS"`
	Storage    string  `yaml:"storage" envconfig:"STORAGE"`
	BucketName string  `yaml:"bucket_name" envconfig:"BUCKET_NAME"`
	Region     string  `yaml:"region" envconfig:"REGION"`
	// BaseDir roots the local copies of stored runs.
	BaseDir  string `yaml:"base_dir" envconfig:"BASE_DIR"`
	Source   string `yaml:"source" envconfig:"SOURCE"`
	DBInfo   DBConf `yaml:"db" envconfig:"DB"`
	RunID    string `yaml:"run_id" envconfig:"RUN_ID"`
	TreeFile string `yaml:"tree_file" envconfig:"TREE_FILE"`
	SaveTree bool   `yaml:"save_tree" envconfig:"SAVE_TREE"`
	TopK     int    `yaml:"top_k" envconfig:"TOP_K"`

	ConfigFile string `yaml:"-" ignored:"true"`
}

// Default returns the settings used when nothing else is given.
func Default() *Configuration {
	return &Configuration{
		Env:       DEVELOPMENT,
		Support:   3,
		Threshold: 0.20,
		Input:     "test.in",
		Output:    "fpgrowth-results.out",
		Format:    report.FormatText,
		Workers:   1,
		Storage:   StorageDisk,
		Source:    SourceFile,
		DBInfo:    DBConf{Dialect: "sqlite3", Table: transaction.DefaultTable},
	}
}

func newFlagSet(name string, c *Configuration) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "YAML configuration file")
	fs.StringVar(&c.Env, "env", c.Env, "development, staging or production")
	for _, n := range []string{"s", "support"} {
		fs.IntVar(&c.Support, n, c.Support, "Minimum support")
	}
	for _, n := range []string{"t", "treshold", "threshold"} {
		fs.Float64Var(&c.Threshold, n, c.Threshold, "Threshold")
	}
	for _, n := range []string{"i", "input"} {
		fs.StringVar(&c.Input, n, c.Input, "Input file")
	}
	for _, n := range []string{"o", "output"} {
		fs.StringVar(&c.Output, n, c.Output, "Output file")
	}
	for _, n := range []string{"v", "verbose"} {
		fs.BoolVar(&c.Verbose, n, c.Verbose, "Print the fp-tree and debug logs")
	}
	fs.StringVar(&c.Format, "format", c.Format, "Report format: text or json")
	fs.IntVar(&c.Workers, "workers", c.Workers, "Header items mined concurrently")
	fs.StringVar(&c.Storage, "storage", c.Storage, "disk, gcs or s3")
	fs.StringVar(&c.BucketName, "bucket_name", c.BucketName, "Bucket for gcs and s3 storage")
	fs.StringVar(&c.Region, "region", c.Region, "AWS region for s3 storage")
	fs.StringVar(&c.BaseDir, "base_dir", c.BaseDir, "Local directory for stored runs")
	fs.StringVar(&c.Source, "source", c.Source, "Transaction source: file or sql")
	fs.StringVar(&c.DBInfo.Dialect, "db_dialect", c.DBInfo.Dialect, "mysql, postgres or sqlite3")
	fs.StringVar(&c.DBInfo.Host, "db_host", c.DBInfo.Host, "")
	fs.IntVar(&c.DBInfo.Port, "db_port", c.DBInfo.Port, "")
	fs.StringVar(&c.DBInfo.User, "db_user", c.DBInfo.User, "")
	fs.StringVar(&c.DBInfo.Name, "db_name", c.DBInfo.Name, "Database name, file for sqlite3")
	fs.StringVar(&c.DBInfo.Password, "db_pass", c.DBInfo.Password, "")
	fs.StringVar(&c.DBInfo.Table, "db_table", c.DBInfo.Table, "Transactions table")
	fs.StringVar(&c.RunID, "run_id", c.RunID, "Run id, generated when empty")
	fs.StringVar(&c.TreeFile, "tree_file", c.TreeFile, "Mine a serialized tree instead of reading transactions")
	fs.BoolVar(&c.SaveTree, "save_tree", c.SaveTree, "Store the serialized tree with the run")
	fs.IntVar(&c.TopK, "k", c.TopK, "Only show the k most frequent patterns")
	return fs
}

// ParseFlags resolves the configuration from defaults, then the config file,
// then FPGROWTH_* environment variables and finally args. Nothing is opened
// besides the config file.
func ParseFlags(name string, args []string) (*Configuration, error) {
	// First pass only finds the config file and rejects malformed args.
	scratch := Default()
	if err := newFlagSet(name, scratch).Parse(args); err != nil {
		return nil, err
	}

	c := Default()
	if scratch.ConfigFile != "" {
		if err := c.loadFile(scratch.ConfigFile); err != nil {
			return nil, err
		}
	}
	if err := envconfig.Process(envPrefix, c); err != nil {
		return nil, err
	}
	fs := newFlagSet(name, c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %v", ErrInvalidConfig, fs.Args())
	}
	return c, nil
}

func (c *Configuration) loadFile(path string) error {
	absPath, _ := filepath.Abs(path)
	logCtx := log.WithField("file", absPath)

	raw, err := ioutil.ReadFile(absPath)
	if err != nil {
		logCtx.WithError(err).Error("Failed to load config")
		return err
	}
	if err := yaml.UnmarshalStrict(raw, c); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal config")
		return err
	}
	c.ConfigFile = path
	logCtx.Debug("Config File Loaded")
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Validate checks values a run cannot start with.
func (c *Configuration) Validate() error {
	switch c.Env {
	case DEVELOPMENT, STAGING, PRODUCTION:
	default:
		return invalid("unknown env %q", c.Env)
	}
	if c.Support < 1 {
		return invalid("support must be a positive integer, got %d", c.Support)
	}
	if c.Workers < 0 {
		return invalid("workers must not be negative, got %d", c.Workers)
	}
	if c.TopK < 0 {
		return invalid("k must not be negative, got %d", c.TopK)
	}
	if !report.ValidFormat(c.Format) {
		return invalid("unknown format %q", c.Format)
	}
	switch c.Storage {
	case StorageDisk:
	case StorageGCS, StorageS3:
		if c.BucketName == "" {
			return invalid("storage %s needs a bucket name", c.Storage)
		}
	default:
		return invalid("unknown storage %q", c.Storage)
	}
	switch c.Source {
	case SourceFile:
		if c.Input == "" && c.TreeFile == "" {
			return invalid("no input file")
		}
	case SourceSQL:
		switch c.DBInfo.Dialect {
		case "mysql", "postgres", "sqlite3":
		default:
			return invalid("unknown db dialect %q", c.DBInfo.Dialect)
		}
	default:
		return invalid("unknown source %q", c.Source)
	}
	if c.Output == "" {
		return invalid("no output file")
	}
	if c.RunID != "" && !U.IsValidRunID(c.RunID) {
		return invalid("run id %q cannot be used as a path", c.RunID)
	}
	return nil
}

// InitLogging logs JSON, at debug level in development or when verbose.
func InitLogging(c *Configuration) {
	log.SetFormatter(&log.JSONFormatter{})
	if c.IsDevelopment() || c.Verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// InitConf validates c and sets up logging.
func InitConf(c *Configuration) error {
	if err := c.Validate(); err != nil {
		return err
	}
	InitLogging(c)
	log.WithFields(log.Fields{
		"env":       c.Env,
		"support":   c.Support,
		"threshold": c.Threshold,
		"storage":   c.Storage,
		"source":    c.Source,
	}).Info("Config initialized")
	return nil
}

func (c *Configuration) IsDevelopment() bool {
	return strings.Compare(c.Env, DEVELOPMENT) == 0
}

// NewFileManager returns the FileManager for c.Storage.
func NewFileManager(c *Configuration) (filestore.FileManager, error) {
	switch c.Storage {
	case StorageGCS:
		return gcstorage.New(c.BucketName)
	case StorageS3:
		return s3.New(c.BucketName, c.Region)
	case StorageDisk:
		return disk.New(c.BaseDir), nil
	}
	return nil, invalid("unknown storage %q", c.Storage)
}

// NewLocalFileManager keeps local copies of stored runs.
func NewLocalFileManager(c *Configuration) filestore.FileManager {
	return disk.New(c.BaseDir)
}

// OpenDB connects to the transactions database.
func OpenDB(c *Configuration) (*gorm.DB, error) {
	db, err := gorm.Open(c.DBInfo.Dialect, c.DBInfo.DSN())
	if err != nil {
		log.WithFields(log.Fields{
			"dialect": c.DBInfo.Dialect,
			"host":    c.DBInfo.Host,
			"name":    c.DBInfo.Name,
		}).WithError(err).Error("Failed connecting to DB.")
		return nil, err
	}
	db.LogMode(c.Verbose)
	return db, nil
}
