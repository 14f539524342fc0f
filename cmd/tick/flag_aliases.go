package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addDescriptionFlagAliases lets --desc stand in for --description on the
// given commands.
func addDescriptionFlagAliases(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		setFlagAliases(cmd.Flags(), map[string]string{"desc": "description"})
	}
}

func setFlagAliases(flags *pflag.FlagSet, aliases map[string]string) {
	normalize := flags.GetNormalizeFunc()
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		return normalize(f, name)
	})
}
