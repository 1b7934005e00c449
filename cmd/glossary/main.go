package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"glossary-manager/internal/config"
	"glossary-manager/internal/terms"
)

// app holds the dependencies shared by all subcommands.
// They are built in PersistentPreRunE once flags and config are known.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	logger  *slog.Logger
	storage terms.Storage
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI with args and returns the process exit code.
func run(args []string, out, errOut io.Writer) int {
	root := newRootCmd(out, errOut)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		reportError(errOut, err)
		return 1
	}
	return 0
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "glossary",
		Short: "Manage a glossary of terms stored in an XML file",
		Long: `Manage a glossary of term/definition pairs stored in a local XML file.

When the storage file is missing or corrupt, rebuild it with
'glossary recreate --from <export>' or 'glossary recreate --empty'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = cfg.NewLogger(errOut)
			a.storage = terms.NewService(cfg.StoragePath)
			a.logger.Debug("Using storage file", "path", cfg.StoragePath)
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().String("storage", "", "Path to the terms XML file (default Terms.xml)")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	a.v.BindPFlag(config.KeyStoragePath, root.PersistentFlags().Lookup("storage"))
	a.v.BindPFlag(config.KeyLogLevel, root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(
		a.newListCommand(),
		a.newAddCommand(),
		a.newUpdateCommand(),
		a.newRemoveCommand(),
		a.newRecreateCommand(),
		a.newImportCommand(),
		a.newExportCommand(),
	)

	return root
}

// reportError prints err for the user. Storage faults get a generic notice
// and a hint to rebuild storage; other errors keep their own message.
func reportError(w io.Writer, err error) {
	if errors.Is(err, terms.ErrStorageInvalid) {
		fmt.Fprintf(w, "Error: the terms storage is invalid: %v\n", err)
		fmt.Fprintln(w, "Run 'glossary recreate --from <export>' or 'glossary recreate --empty' to rebuild it.")
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
