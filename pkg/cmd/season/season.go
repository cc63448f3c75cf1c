package season

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/racelap/racelap-ingest-go/log"
	"github.com/racelap/racelap-ingest-go/pkg/config"
	"github.com/racelap/racelap-ingest-go/pkg/db/postgres"
	"github.com/racelap/racelap-ingest-go/pkg/service"
)

func NewSeasonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "season",
		Short: "manages the competitive seasons",
	}
	cmd.AddCommand(newCreateCmd())
	return cmd
}

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "creates a season and makes it the active one",
		RunE: func(cmd *cobra.Command, args []string) error {
			return createSeason()
		},
	}
	cmd.Flags().StringVarP(&config.SeasonName, "name", "n", "",
		"name of the season")
	//nolint:errcheck // flag exists
	cmd.MarkFlagRequired("name")
	return cmd
}

func createSeason() error {
	log.ResetDefault(log.DevLogger(os.Stderr, log.InfoLevel))
	pool := postgres.InitWithURL(config.DB)
	defer pool.Close()

	ret, err := service.InitAdminService(pool).CreateActiveSeason(
		context.Background(), config.SeasonName)
	if err != nil {
		return err
	}
	log.Info("season created",
		log.Int("id", ret.ID), log.String("name", ret.Name))
	return nil
}
