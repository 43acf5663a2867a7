package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/midunthangavel/fixmyevent-sub001/internal/config"
	"github.com/midunthangavel/fixmyevent-sub001/internal/provider"
)

func newProbeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Report which providers are configured or reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			registry := provider.NewRegistry(cmd.Context(), cfg.Providers, zap.NewNop())
			defer registry.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tROLE\tSTATUS")
			for _, id := range provider.IDs() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", id, role(cfg, id), providerStatus(cfg, registry, id))
			}
			return w.Flush()
		},
	}
}

func role(cfg *config.Config, id provider.ID) string {
	switch id {
	case cfg.Dispatch.Primary:
		return "primary"
	case cfg.Dispatch.Fallback:
		return "fallback"
	}
	for _, r := range cfg.Dispatch.Routes {
		if r.Primary == id || r.Fallback == id {
			return "routed"
		}
	}
	return "-"
}

// providerStatus never calls a hosted API; only the local probe touches the
// network.
func providerStatus(cfg *config.Config, registry provider.Registry, id provider.ID) string {
	switch id {
	case provider.Local:
		if local, ok := registry[id].(*provider.LocalProvider); ok && local.Available() {
			return "reachable"
		}
		return "unreachable"
	case provider.OpenAI:
		return keyStatus(cfg.Providers.OpenAI.APIKey)
	case provider.Anthropic:
		return keyStatus(cfg.Providers.Anthropic.APIKey)
	case provider.HuggingFace:
		return keyStatus(cfg.Providers.HuggingFace.APIKey)
	}
	return "unknown"
}

func keyStatus(key string) string {
	if key == "" {
		return "missing api key"
	}
	return "configured"
}
