package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/marketpro/internal/client"
	"github.com/alfredjeanlab/marketpro/internal/server"
	"github.com/alfredjeanlab/marketpro/internal/ui"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check that the site server is up",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		grpcAddr, _ := cmd.Flags().GetString("grpc")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		status, err := siteClient.Health(ctx)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s http %s: %v\n", ui.RenderError("✗"), siteClient.BaseURL(), err)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s http %s: %s\n", ui.RenderSuccess("✓"), siteClient.BaseURL(), status)

		if grpcAddr == "" {
			return nil
		}
		status, err = client.GRPCHealth(ctx, grpcAddr, server.HealthService)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s grpc %s: %v\n", ui.RenderError("✗"), grpcAddr, err)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s grpc %s: %s\n", ui.RenderSuccess("✓"), grpcAddr, status)
		return nil
	},
}

func init() {
	healthCmd.Flags().String("grpc", "", "also probe the gRPC health service at this address")
}
