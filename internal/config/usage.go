package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/agbru/fibengine/internal/ui"
)

// setCustomUsage installs a themed usage function on the flag set.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		// Honor NO_COLOR even when usage fires before theme init.
		t := ui.GetCurrentTheme()
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			t = ui.PlainTheme
		}

		out := fs.Output()

		fmt.Fprintf(out, "\n%s\n", t.Bold("Fibonacci Engine"))
		fmt.Fprintf(out, "Exact computation of arbitrarily large Fibonacci numbers.\n\n")
		fmt.Fprintf(out, "%s\n  %s [flags]\n\n%s\n", t.Warning("Usage:"), fs.Name(), t.Warning("Flags:"))

		fs.VisitAll(func(f *flag.Flag) {
			name, usage := flag.UnquoteUsage(f)
			flagSig := fmt.Sprintf("-%s", f.Name)
			if len(name) > 0 {
				flagSig += " " + name
			}

			fmt.Fprintf(out, "  %s %s", t.Primary("%-25s", flagSig), usage)

			if f.DefValue != "" && f.DefValue != "0" && f.DefValue != "false" {
				fmt.Fprintf(out, " %s", t.Secondary("(default %s)", f.DefValue))
			}
			fmt.Fprintln(out)
		})
		fmt.Fprintf(out, "\nEnvironment variables with the %s prefix fill in flags left unset\n", EnvPrefix)
		fmt.Fprintf(out, "(for example %sN, %sALGO, %sTIMEOUT).\n\n", EnvPrefix, EnvPrefix, EnvPrefix)
	}
}
