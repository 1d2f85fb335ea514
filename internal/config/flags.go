package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/tokendrop/internal/flagx"
)

// parseFlags overlays selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-n string   target network name (localhost, sepolia)
//	-r string   path to the local token root directory
//
// Args are filtered to only the flags handled here so the parse does not
// collide with flags owned by other components.
func (c *Config) parseFlags() {
	args := flagx.FilterArgs(os.Args[1:], []string{"-n", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.StringVar(&c.Network, "n", c.Network, "target network name")
	fs.StringVar(&c.RootPath, "r", c.RootPath, "token root directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
