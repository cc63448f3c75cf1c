package driver

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/racelap/racelap-ingest-go/log"
	"github.com/racelap/racelap-ingest-go/pkg/config"
	"github.com/racelap/racelap-ingest-go/pkg/db/postgres"
	"github.com/racelap/racelap-ingest-go/pkg/service"
)

var (
	name       string
	externalID string
)

func NewDriverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "driver",
		Short: "manages the driver roster used for identity resolution",
	}
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newListCmd())
	return cmd
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "adds a driver to the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			return addDriver()
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name of the driver")
	cmd.Flags().StringVarP(&externalID, "external-id", "e", "",
		"identifier the telemetry source reports for this driver")
	//nolint:errcheck // flags exist
	cmd.MarkFlagRequired("name")
	//nolint:errcheck // flags exist
	cmd.MarkFlagRequired("external-id")
	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "lists the driver roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listDrivers()
		},
	}
}

func addDriver() error {
	log.ResetDefault(log.DevLogger(os.Stderr, log.InfoLevel))
	pool := postgres.InitWithURL(config.DB)
	defer pool.Close()

	ret, err := service.InitAdminService(pool).AddDriver(
		context.Background(), name, externalID)
	if err != nil {
		return err
	}
	log.Info("driver added",
		log.Int("id", ret.ID),
		log.String("name", ret.Name),
		log.String("externalId", ret.ExternalID))
	return nil
}

func listDrivers() error {
	log.ResetDefault(log.DevLogger(os.Stderr, log.WarnLevel))
	pool := postgres.InitWithURL(config.DB)
	defer pool.Close()

	drivers, err := service.InitAdminService(pool).ListDrivers(context.Background())
	if err != nil {
		return err
	}
	for _, d := range drivers {
		fmt.Fprintf(os.Stdout, "%d\t%s\t%s\n", d.ID, d.Name, d.ExternalID)
	}
	return nil
}
