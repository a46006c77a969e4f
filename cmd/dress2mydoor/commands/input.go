package commands

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dress2mydoor/dress2mydoor/internal/seed"
)

// addInputFlags registers the local input flags shared by sync and extract.
// --directory is accepted as an alias of --dir.
func addInputFlags(flags *pflag.FlagSet) {
	flags.SetNormalizeFunc(dirAlias)
	flags.String("file", "", "single input file: .json records or an .html/.htm gallery page")
	flags.String("dir", ".", "directory scanned for .html/.htm files (alias --directory, or FRONTEND_DIR)")
	flags.String("files", "", "comma-separated HTML files")
}

func dirAlias(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "directory" {
		name = "dir"
	}
	return pflag.NormalizedName(name)
}

// inputDir returns --dir when given, else FRONTEND_DIR (or frontend_dir in
// the config file), else the flag default.
func inputDir(flags *pflag.FlagSet) string {
	dir, _ := flags.GetString("dir")
	if flags.Changed("dir") {
		return dir
	}
	if v := viper.GetString("frontend_dir"); v != "" {
		return v
	}
	return dir
}

// inputOptions fills the input fields of seed.Options from the shared flags.
func inputOptions(flags *pflag.FlagSet) seed.Options {
	opts := seed.Options{Dir: inputDir(flags)}
	opts.File, _ = flags.GetString("file")
	if flags.Changed("files") {
		// An explicit empty list stays non-empty here so it reports no HTML
		// files instead of falling back to the directory scan.
		list, _ := flags.GetString("files")
		opts.Files = strings.Split(list, ",")
	}
	return opts
}
