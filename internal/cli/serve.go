package cli

import (
	"log"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		router := a.Router()
		log.Printf("Server starting on port %s", a.Config.Server.Port)
		return router.Run(":" + a.Config.Server.Port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
