package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns a slice of command-line arguments that only contains
// the allowed flags (and their values) specified in allowedFlags.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -n sepolia
//  2. Flag and value combined with '=':      --network=sepolia
//
// Flags match by name regardless of dash count, so an allowed "-envfile"
// also keeps "--envfile=path".
//
// This lets each config layer parse only the flags it knows about without
// interfering with flags defined elsewhere.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[strings.TrimLeft(f, "-")] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name := strings.TrimLeft(arg, "-")

		// "--flag=value" or "-f=value"
		if strings.Contains(arg, "=") {
			name = strings.SplitN(name, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		// flag as a separate argument, value may follow
		if _, ok := allowed[name]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// EnvFileFlags inspects command-line arguments and extracts the env file
// path provided via the -e or -envfile flags.
//
// Only these flags are parsed; other arguments are ignored. If neither flag
// is present, an empty string is returned and the default ".env" lookup
// applies.
func EnvFileFlags() string {
	var envFile string

	args := FilterArgs(os.Args[1:], []string{"-e", "-envfile"})

	fs := flag.NewFlagSet("envfile", flag.ContinueOnError)
	fs.StringVar(&envFile, "envfile", "", "Path to env file")
	fs.StringVar(&envFile, "e", "", "Path to env file (short)")
	_ = fs.Parse(args)

	return envFile
}
