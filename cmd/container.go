// Root composition root. Owns infrastructure (DB, Redis, mail transport,
// file storage) and wires the modules together. This is the only place
// that knows about every module.
package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/maildeck/maildeck/pkg/config"
	"github.com/maildeck/maildeck/pkg/fsx"
	"github.com/maildeck/maildeck/pkg/fsx/fsxlocal"
	"github.com/maildeck/maildeck/pkg/logx"
	"github.com/maildeck/maildeck/pkg/maillog/mailloghttp"
	"github.com/maildeck/maildeck/pkg/maillog/mailloginfra"
	"github.com/maildeck/maildeck/pkg/maillog/maillogsrv"
	"github.com/maildeck/maildeck/pkg/notifx"
	"github.com/maildeck/maildeck/pkg/notifx/notifxconsole"
	"github.com/maildeck/maildeck/pkg/notifx/notifxses"
	"github.com/maildeck/maildeck/pkg/notifx/notifxsmtp"
	"github.com/maildeck/maildeck/pkg/upload"
)

// Container holds shared infrastructure and the composed modules.
type Container struct {
	Config *config.Config

	DB      *sqlx.DB
	Redis   *redis.Client
	Uploads *fsxlocal.LocalFileSystem
	Mailer  *notifx.Client

	MailService    *maillogsrv.Service
	MailHandlers   *mailloghttp.Handlers
	UploadHandlers *upload.Handlers
}

// NewContainer initializes infrastructure and modules. Any failure here is
// fatal: the process must not come up half-wired.
func NewContainer(cfg *config.Config) *Container {
	logx.Info("initializing application container")

	c := &Container{Config: cfg}
	c.initDatabase()
	c.initRedis()
	c.initFileStorage()
	c.initMailer()
	c.initModules()

	logx.Info("application container initialized")
	return c
}

func (c *Container) initDatabase() {
	db, err := sqlx.Connect("postgres", c.Config.Database.URL)
	if err != nil {
		logx.Fatalf("failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.Config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db
	logx.Info("database connected")

	c.applyMigrations()
}

func (c *Container) applyMigrations() {
	path, err := filepath.Abs(c.Config.Database.MigrationsPath)
	if err != nil {
		logx.Fatalf("failed to resolve migrations path: %v", err)
	}
	m, err := migrate.New("file://"+path, c.Config.Database.URL)
	if err != nil {
		logx.Fatalf("failed to create migrate instance: %v", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		logx.Fatalf("failed to apply migrations: %v", err)
	}
	logx.Info("database migrations up to date")
}

func (c *Container) initRedis() {
	// Redis only backs the daily send quota; skip it when no limit is set.
	if c.Config.Mail.DailyLimit <= 0 {
		logx.Info("send quota disabled, skipping redis")
		return
	}

	c.Redis = redis.NewClient(&redis.Options{
		Addr:     c.Config.Redis.Address(),
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Fatalf("failed to connect to redis: %v (required for MAIL_DAILY_LIMIT)", err)
	}
	logx.Info("redis connected")
}

func (c *Container) initFileStorage() {
	uploads, err := fsxlocal.NewLocalFileSystem(c.Config.Storage.UploadDir)
	if err != nil {
		logx.Fatalf("failed to initialize upload storage: %v", err)
	}
	c.Uploads = uploads
	logx.Infof("upload storage at %s", uploads.BasePath())
}

func (c *Container) initMailer() {
	var provider notifx.EmailSender

	switch c.Config.Mail.Provider {
	case "smtp":
		provider = notifxsmtp.NewSMTPProvider(notifxsmtp.Config{
			Host:          c.Config.Mail.SMTPHost,
			Port:          c.Config.Mail.SMTPPort,
			Username:      c.Config.Mail.SMTPUser,
			Password:      c.Config.Mail.SMTPPassword,
			SkipTLSVerify: c.Config.Mail.SkipTLSVerify,
		})
		logx.Infof("mail transport: smtp relay %s:%d", c.Config.Mail.SMTPHost, c.Config.Mail.SMTPPort)

	case "ses":
		awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
			awsConfig.WithRegion(c.Config.Mail.AWSRegion))
		if err != nil {
			logx.Fatalf("unable to load AWS SDK config: %v", err)
		}
		provider = notifxses.NewSESProvider(ses.NewFromConfig(awsCfg))
		logx.Infof("mail transport: ses (region %s)", c.Config.Mail.AWSRegion)

	case "console":
		provider = notifxconsole.NewConsoleProvider()
		logx.Warn("mail transport: console (emails are logged, not sent)")

	default:
		logx.Fatalf("unknown MAIL_PROVIDER: %s (use 'smtp', 'ses' or 'console')", c.Config.Mail.Provider)
	}

	c.Mailer = notifx.NewClient(provider)
	c.loadTemplates()
}

// loadTemplates registers every .html file under templates/ by basename.
func (c *Container) loadTemplates() {
	entries, err := os.ReadDir("templates")
	if err != nil {
		if !os.IsNotExist(err) {
			logx.Warnf("failed to read templates dir: %v", err)
		}
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		data, err := os.ReadFile(filepath.Join("templates", entry.Name()))
		if err != nil {
			logx.Warnf("failed to read template %s: %v", entry.Name(), err)
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".html")
		if err := c.Mailer.RegisterTemplate(name, string(data)); err != nil {
			logx.Warnf("failed to register template %s: %v", name, err)
			continue
		}
		logx.Infof("registered email template %q", name)
	}
}

func (c *Container) initModules() {
	repo := mailloginfra.NewPostgresLogRepository(c.DB)

	var quota maillogsrv.Quota
	if c.Redis != nil {
		quota = maillogsrv.NewRedisQuota(c.Redis, c.Config.Mail.DailyLimit)
		logx.Infof("daily send limit: %d", c.Config.Mail.DailyLimit)
	}

	c.MailService = maillogsrv.NewService(
		repo,
		c.Mailer,
		maillogsrv.Sender{
			Address: c.Config.Mail.FromAddress,
			Name:    c.Config.Mail.FromName,
		},
		osFileDeleter{},
		quota,
	)
	c.MailHandlers = mailloghttp.NewHandlers(c.MailService)

	c.UploadHandlers = upload.NewHandlers(upload.NewService(c.Uploads))
}

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Errorf("error closing database: %v", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("error closing redis: %v", err)
		}
	}
	logx.Info("cleanup complete")
}

// osFileDeleter deletes attachment files by their absolute path. Upload
// responses hand out absolute paths, so cleanup cannot go through the
// base-rooted upload file system.
type osFileDeleter struct{}

func (osFileDeleter) DeleteFile(_ context.Context, path string) error {
	return os.Remove(path)
}

var _ fsx.FileDeleter = osFileDeleter{}
