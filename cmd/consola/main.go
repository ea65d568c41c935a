package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "consola",
		Short:         "Consola de administración de usuarios, roles y tipos de documento",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newServeCommand(),
		newLoginCommand(),
		newLogoutCommand(),
		newSesionCommand(),
		newPermisosCommand(),
		newListarCommand(),
	)
	if err := root.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
