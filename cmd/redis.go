package main

import (
	"net"

	"github.com/urfave/cli/v2"
)

const (
	redisHostFlag     = "redis-host"
	redisPortFlag     = "redis-port"
	redisPasswordFlag = "redis-password"
	redisDBFlag       = "redis-db"
	redisPrefixFlag   = "redis-prefix"
)

func NewRedisFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    redisHostFlag,
			Value:   "localhost",
			EnvVars: []string{"REDIS_HOST"},
		},
		&cli.StringFlag{
			Name:    redisPortFlag,
			Value:   "6379",
			EnvVars: []string{"REDIS_PORT"},
		},
		&cli.StringFlag{
			Name:    redisPasswordFlag,
			EnvVars: []string{"REDIS_PASSWORD"},
		},
		&cli.IntFlag{
			Name:    redisDBFlag,
			EnvVars: []string{"REDIS_DB"},
		},
		&cli.StringFlag{
			Name:    redisPrefixFlag,
			Value:   "dashboard:",
			EnvVars: []string{"REDIS_PREFIX"},
		},
	}
}

func redisAddr(c *cli.Context) string {
	return net.JoinHostPort(c.String(redisHostFlag), c.String(redisPortFlag))
}
