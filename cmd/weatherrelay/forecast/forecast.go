package forecastcmder

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/weatherrelay/pkg/config"
	"github.com/papercomputeco/weatherrelay/pkg/weather"
)

const forecastLongDesc string = `Print tomorrow's forecast narrative for a known city.

Uses the same weather service configuration as the relay server,
which makes it a quick check that the service binding works.

Examples:
  weatherrelay forecast Cairo
  weatherrelay forecast --config /etc/weatherrelay.toml NYC`

const forecastShortDesc string = "Fetch tomorrow's forecast for a city"

type forecastCommander struct {
	configPath string

	// lookupEnv overrides the process environment in tests.
	lookupEnv config.LookupFunc
}

func NewForecastCmd() *cobra.Command {
	return (&forecastCommander{}).command()
}

func (c *forecastCommander) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast <city>",
		Short: forecastShortDesc,
		Long:  forecastLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&c.configPath, "config", "c", "weatherrelay.toml", "Path to TOML configuration file")

	return cmd
}

func (c *forecastCommander) run(ctx context.Context, cmd *cobra.Command, city string) error {
	coord := weather.LookupCity(city)
	if coord.IsZero() {
		return fmt.Errorf("unknown city %q (see `weatherrelay cities`)", city)
	}

	cfg, err := config.Loader{
		ConfigPath: c.configPath,
		EnvFile:    ".env",
		LookupEnv:  c.lookupEnv,
	}.Load()
	if err != nil {
		return fmt.Errorf("could not load configuration: %w", err)
	}

	client, err := weather.NewClient(cfg.Weather.URL, weather.WithTimeout(cfg.Weather.Timeout))
	if err != nil {
		return fmt.Errorf("could not create weather client: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	narrative, err := client.FetchForecast(ctx, coord)
	if err != nil {
		return fmt.Errorf("could not fetch forecast for %s: %w", city, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), narrative)
	return nil
}

// NewCitiesCmd lists the cities the relay can forecast for.
func NewCitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cities",
		Short: "List the cities with known coordinates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]string, 0, len(weather.Cities))
			for name := range weather.Cities {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				coord := weather.Cities[name]
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", name, coord.Latitude, coord.Longitude)
			}
			return nil
		},
	}
}
