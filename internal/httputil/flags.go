package httputil

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// HTTPPort is the default listen port of a service.
type HTTPPort int

const Port HTTPPort = 8080

const (
	httpHostFlag = "http-host"
	httpPortFlag = "http-port"
)

// NewHTTPCliFlags creates the flags of the HTTP listener.
func NewHTTPCliFlags(port HTTPPort) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    httpHostFlag,
			Value:   "0.0.0.0",
			Usage:   "host to listen on",
			EnvVars: []string{"HTTP_HOST"},
		},
		&cli.IntFlag{
			Name:    httpPortFlag,
			Value:   int(port),
			Usage:   "port to listen on",
			EnvVars: []string{"HTTP_PORT"},
		},
	}
}

// NewHTTPAddressFromContext returns host:port from the parsed flags.
func NewHTTPAddressFromContext(c *cli.Context) string {
	return fmt.Sprintf("%s:%d", c.String(httpHostFlag), c.Int(httpPortFlag))
}
