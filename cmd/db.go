package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
)

const (
	postgresHostFlag     = "postgres-host"
	postgresPortFlag     = "postgres-port"
	postgresUserFlag     = "postgres-user"
	postgresPasswordFlag = "postgres-password"
	postgresDatabaseFlag = "postgres-database"
	postgresSSLModeFlag  = "postgres-sslmode"
)

func NewPostgreSQLFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    postgresHostFlag,
			Value:   "localhost",
			EnvVars: []string{"POSTGRES_HOST"},
		},
		&cli.IntFlag{
			Name:    postgresPortFlag,
			Value:   5432,
			EnvVars: []string{"POSTGRES_PORT"},
		},
		&cli.StringFlag{
			Name:    postgresUserFlag,
			Value:   "postgres",
			EnvVars: []string{"POSTGRES_USER"},
		},
		&cli.StringFlag{
			Name:    postgresPasswordFlag,
			EnvVars: []string{"POSTGRES_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    postgresDatabaseFlag,
			Value:   "dashboard",
			EnvVars: []string{"POSTGRES_DATABASE"},
		},
		&cli.StringFlag{
			Name:    postgresSSLModeFlag,
			Value:   "disable",
			EnvVars: []string{"POSTGRES_SSLMODE"},
		},
	}
}

func postgresDSN(c *cli.Context) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.String(postgresHostFlag), c.Int(postgresPortFlag), c.String(postgresUserFlag),
		c.String(postgresPasswordFlag), c.String(postgresDatabaseFlag), c.String(postgresSSLModeFlag))
}

// NewDBFromContext connects to postgres using the parsed flags.
func NewDBFromContext(c *cli.Context) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", postgresDSN(c))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}
