package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/ghostvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   data directory for vault databases (default from Config)
//	-u string   user id override (default: persisted anonymous identity)
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-u"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory for vault databases")
	fs.StringVar(&cfg.UserID, "u", cfg.UserID, "user id override")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
