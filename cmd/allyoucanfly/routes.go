package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/deniam/AllYouCanFlyPro-sub000/internal/model"
	"github.com/deniam/AllYouCanFlyPro-sub000/internal/route"
)

// NewRoutesCmd creates the routes command.
func NewRoutesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes ORIGIN",
		Short: "List destinations reachable from an origin",
		Long: `Routes lists the published destinations of ORIGIN from the route catalog.
ORIGIN may be an airport code or a group code. With --date, every route is
marked with whether a flight may operate on that date.

Examples:
  allyoucanfly routes BUD
  allyoucanfly routes LON --date 2025-03-10`,
		Args: cobra.ExactArgs(1),
		RunE: runRoutesCmd,
	}

	cmd.Flags().StringP("date", "d", "", "Check availability on this date (YYYY-MM-DD)")
	cmd.Flags().String("catalog", "", "Route catalog file (YAML or JSON)")

	return cmd
}

// runRoutesCmd executes the routes command.
func runRoutesCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("catalog") {
		if cfg.CatalogPath, err = cmd.Flags().GetString("catalog"); err != nil {
			return err
		}
	}

	dateText, err := cmd.Flags().GetString("date")
	if err != nil {
		return err
	}
	var date time.Time
	if dateText != "" {
		if date, err = model.ParseDate(dateText); err != nil {
			return fmt.Errorf("invalid --date %q: %w", dateText, err)
		}
	}

	graph, err := loadGraph(cfg)
	if err != nil {
		return err
	}

	origins, err := graph.Expand(strings.ToUpper(strings.TrimSpace(args[0])))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, origin := range origins {
		writeRoutes(out, graph, origin, date)
	}
	return nil
}

// writeRoutes prints the destinations of one origin.
func writeRoutes(out io.Writer, graph *route.Graph, origin string, date time.Time) {
	fmt.Fprintf(out, "%s\n", airportLabel(graph, origin))

	destinations := graph.Neighbors(origin)
	if len(destinations) == 0 {
		fmt.Fprintln(out, "  no published routes")
		return
	}

	for _, dest := range destinations {
		line := "  -> " + airportLabel(graph, dest)
		if !date.IsZero() {
			if graph.IsDateValid(origin, dest, date) {
				line += "  [flies " + model.FormatDate(date) + "]"
			} else {
				line += "  [no flight " + model.FormatDate(date) + "]"
			}
		}
		fmt.Fprintln(out, line)
	}
}

// airportLabel renders "BUD Budapest (Hungary)", or the code alone.
func airportLabel(graph *route.Graph, code string) string {
	a, ok := graph.Airport(code)
	if !ok {
		return code
	}
	label := a.Code
	if a.Name != "" {
		label += " " + a.Name
	}
	if a.Country != "" {
		label += " (" + a.Country + ")"
	}
	return label
}
