package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/roster-service/internal/api/dto"
	"github.com/spec-kit/roster-service/internal/domain"
	"github.com/spec-kit/roster-service/internal/roster"
	"github.com/spec-kit/roster-service/internal/service"
)

// rosterService opens the store and wraps it in an uncached service.
func (e *env) rosterService(cmd *cobra.Command) (*service.RosterService, func(), error) {
	st, err := e.openStore(cmd.Context(), e.cfg, e.logger)
	if err != nil {
		return nil, nil, err
	}
	svc := service.NewRosterService(service.RosterDependencies{
		Repo:           st.repo,
		Logger:         e.logger,
		DefaultPhoto:   e.cfg.Roster.DefaultPhotoURL,
		BreakdownLimit: e.cfg.Roster.BreakdownLimit,
	})
	return svc, st.close, nil
}

func newStatsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print collaborator counts per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeStore, err := e.rosterService(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			stats, err := svc.Statistics(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd, dto.NewCategoryResponses(svc.Categories(), stats), func(w io.Writer) {
				pct := stats.Percentages()
				fmt.Fprintln(w, "CATEGORY\tCOUNT\tPERCENT")
				for _, c := range svc.Categories() {
					share := 100.0
					if c != domain.CategoryAll {
						share = pct[c]
					}
					fmt.Fprintf(w, "%s\t%d\t%.1f%%\n", c.Label(), stats.Count(c), share)
				}
			})
		},
	}
}

func newListCmd(e *env) *cobra.Command {
	var category, unit, query string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List collaborators matching a filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed, ok := domain.ParseCategory(category)
			if !ok {
				return fmt.Errorf("unknown category %q", category)
			}

			svc, closeStore, err := e.rosterService(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			view, err := svc.View(cmd.Context(), roster.Filter{Category: parsed, Unit: unit, Query: query})
			if err != nil {
				return err
			}
			return render(cmd, dto.NewCollaboratorListResponse(view), func(w io.Writer) {
				fmt.Fprintln(w, "NAME\tROLE\tUNIT\tSTATUS\tCATEGORY")
				for _, c := range view.Records {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", c.Name, c.Role, c.Unit, c.Status, c.Category())
				}
			})
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "category label, e.g. ACTIVE or Demitidos")
	cmd.Flags().StringVarP(&unit, "unit", "u", "", "exact unit name")
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive text over name, role and unit")
	return cmd
}

func newStatusesCmd(e *env) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "statuses",
		Short: "Print the most frequent raw status values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}
			svc, closeStore, err := e.rosterService(cmd)
			if err != nil {
				return err
			}
			defer closeStore()

			groups, err := svc.StatusBreakdown(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return render(cmd, dto.NewStatusGroupResponses(groups), func(w io.Writer) {
				fmt.Fprintln(w, "STATUS\tCOUNT\tCATEGORY\tGUESS")
				for _, g := range groups {
					fmt.Fprintf(w, "%q\t%d\t%s\t%s\n", g.Status, g.Count, g.Category, domain.GuessCategory(g.Status))
				}
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of statuses to print (0 uses ROSTER_BREAKDOWN_LIMIT)")
	return cmd
}

// render writes v in the format picked by --output. Tables are written by
// table through a tabwriter.
func render(cmd *cobra.Command, v any, table func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	format, _ := cmd.Flags().GetString("output")

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		// Round-trip through JSON so yaml keys follow the json tags.
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(generic)
	case "table", "":
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
