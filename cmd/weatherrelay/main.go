package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	forecastcmder "github.com/papercomputeco/weatherrelay/cmd/weatherrelay/forecast"
	servecmder "github.com/papercomputeco/weatherrelay/cmd/weatherrelay/serve"
)

const rootLongDesc string = `weatherrelay relays chat messages between a browser UI and a
conversation service, and answers questions about a city's weather
with tomorrow's forecast from the weather service.`

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "weatherrelay",
		Short:         "Conversation relay with weather forecasts",
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(forecastcmder.NewForecastCmd())
	cmd.AddCommand(forecastcmder.NewCitiesCmd())

	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
