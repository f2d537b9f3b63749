package main

import (
	"context"
	"fmt"
	"os"

	"github.com/inkwell/internal/auth"
	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/logging"
	"github.com/inkwell/internal/service"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

func main() {
	app := &cli.Command{
		Name:  "inkctl",
		Usage: "Administrative tasks for the Inkwell blog API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "driver",
				Usage: "database driver (sqlite|postgres), overrides DATABASE_DRIVER",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "sqlite database path, overrides DATABASE_PATH",
			},
			&cli.StringFlag{
				Name:  "dsn",
				Usage: "postgres connection string, overrides DATABASE_URL",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log SQL statements",
			},
		},
		Commands: []*cli.Command{
			migrateCommand(),
			userCommands(),
			seedCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// openDB 读取服务配置，命令行参数优先，并执行自动迁移。
func openDB(cmd *cli.Command) (*gorm.DB, config.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}
	logging.Configure(cfg.LogLevel, true)

	opts := db.Options{
		Driver:  cfg.DatabaseDriver,
		Path:    cfg.DatabasePath,
		DSN:     cfg.DatabaseURL,
		Verbose: cmd.Bool("verbose"),
	}
	if cmd.IsSet("driver") {
		opts.Driver = cmd.String("driver")
	}
	if cmd.IsSet("db") {
		opts.Path = cmd.String("db")
	}
	if cmd.IsSet("dsn") {
		opts.DSN = cmd.String("dsn")
	}

	if err := db.Init(opts); err != nil {
		return nil, cfg, fmt.Errorf("initialize database: %w", err)
	}
	return db.DB, cfg, nil
}

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update database tables",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			gdb, _, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			log.Info("[inkctl] migration complete")
			return nil
		},
	}
}

func userCommands() *cli.Command {
	return &cli.Command{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "User operations",
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Create a user account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "display name", Required: true},
					&cli.StringFlag{Name: "email", Usage: "login email", Required: true},
					&cli.StringFlag{Name: "password", Usage: "login password", Sources: cli.EnvVars("INKCTL_PASSWORD"), Required: true},
					&cli.StringFlag{Name: "role", Usage: "USER or AUTHOR", Value: "USER"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					gdb, cfg, err := openDB(cmd)
					if err != nil {
						return err
					}
					defer closeDB(gdb)

					svc := service.NewAuthService(gdb, auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL))
					session, err := svc.Signup(service.SignupInput{
						Name:     cmd.String("name"),
						Email:    cmd.String("email"),
						Password: cmd.String("password"),
						Role:     cmd.String("role"),
					})
					if err != nil {
						return err
					}

					fmt.Printf("created user %d <%s> with role %s\n", session.User.ID, session.User.Email, session.User.Role)
					fmt.Printf("token: %s\n", session.Token)
					return nil
				},
			},
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Populate an empty database with demo users, posts and comments",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			gdb, _, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			summary, err := seed(gdb)
			if err != nil {
				return err
			}
			if summary.Skipped {
				fmt.Println("users already exist, skipping seed")
				return nil
			}
			fmt.Printf("seeded %d users, %d posts, %d comments\n", summary.Users, summary.Posts, summary.Comments)
			fmt.Printf("author: %s (password: %s)\n", demoAuthorEmail, demoPassword)
			fmt.Printf("reader: %s (password: %s)\n", demoReaderEmail, demoPassword)
			return nil
		},
	}
}
