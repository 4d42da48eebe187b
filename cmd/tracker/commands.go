package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/justsurfingit/outreach-tracker/internal/dtos"
	"github.com/justsurfingit/outreach-tracker/internal/models"
	"github.com/justsurfingit/outreach-tracker/internal/tracker"
	"github.com/spf13/cobra"
)

var statusColors = map[models.Status]lipgloss.Color{
	models.StatusApplied:          lipgloss.Color("12"),
	models.StatusInterviewing:     lipgloss.Color("11"),
	models.StatusOffer:            lipgloss.Color("10"),
	models.StatusRejected:         lipgloss.Color("9"),
	models.StatusFollowUpPending:  lipgloss.Color("208"),
	models.StatusAwaitingResponse: lipgloss.Color("13"),
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all applications, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printTable(cmd.OutOrStdout(), state.sync)
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a placeholder application",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := state.sync.Add(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), app.ID)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id> <field> <value>",
	Short: "Change one field and save it",
	Long: `Change one field and save it. With --now the save starts at once,
otherwise it is debounced and flushed before the command exits.

Fields: companyName, jobTitle, jobDescription, companyLinkedIn, dateApplied,
status, comments, founderName, founderEmail, founderLinkedIn.`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return state.sync.Edit(args[0], args[1], strings.Join(args[2:], " "), editNow)
	},
}

var (
	editNow      bool
	founderFlags []string
)

var foundersCmd = &cobra.Command{
	Use:   "founders <id>",
	Short: "Replace the founder list",
	Example: `  tracker founders 3f2c --founder "Ada Lovelace,ada@acme.test,https://linkedin.com/in/ada"`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		founders, err := parseFounders(founderFlags)
		if err != nil {
			return err
		}
		return state.sync.SaveFounders(args[0], founders)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return state.sync.Delete(cmd.Context(), args[0])
	},
}

var actionTarget string

var emailCmd = &cobra.Command{
	Use:   "email <id>",
	Short: "Send the founder email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := state.sync.SendEmail(cmd.Context(), args[0], actionTarget)
		return err
	},
}

var linkedInKind string

var linkedInCmd = &cobra.Command{
	Use:   "linkedin <id>",
	Short: "Generate a LinkedIn message, copy it and open the profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := state.sync.LinkedInMessage(cmd.Context(), args[0], linkedInKind, actionTarget)
		if err != nil {
			return err
		}
		printMessages(cmd.OutOrStdout(), resp)
		return nil
	},
}

var followUpCmd = &cobra.Command{
	Use:   "follow-up <id>",
	Short: "Run a follow-up action (email, founder-linkedin, company-linkedin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := state.sync.FollowUp(cmd.Context(), args[0], actionTarget)
		if err != nil {
			return err
		}
		printMessages(cmd.OutOrStdout(), resp)
		return nil
	},
}

func init() {
	editCmd.Flags().BoolVar(&editNow, "now", false, "save immediately instead of after the debounce interval")
	foundersCmd.Flags().StringArrayVar(&founderFlags, "founder", nil, `founder as "name,email,linkedin-url" (repeatable)`)

	emailCmd.Flags().StringVar(&actionTarget, "target", "", "context passed to the backend")
	linkedInCmd.Flags().StringVar(&actionTarget, "target", "", "context passed to the backend")
	linkedInCmd.Flags().StringVar(&linkedInKind, "kind", tracker.KindFounder, "founder or company")
	followUpCmd.Flags().StringVar(&actionTarget, "target", dtos.TargetEmail, "email, founder-linkedin or company-linkedin")

	rootCmd.AddCommand(listCmd, addCmd, editCmd, foundersCmd, deleteCmd, emailCmd, linkedInCmd, followUpCmd, shellCmd)
}

func parseFounders(values []string) ([]models.Founder, error) {
	founders := make([]models.Founder, 0, len(values))
	for _, v := range values {
		parts := strings.SplitN(v, ",", 3)
		if len(parts) != 3 {
			return nil, fmt.Errorf("founder %q: want name,email,linkedin-url", v)
		}
		founders = append(founders, models.Founder{
			Name:     strings.TrimSpace(parts[0]),
			Email:    strings.TrimSpace(parts[1]),
			LinkedIn: strings.TrimSpace(parts[2]),
		})
	}
	return founders, nil
}

func printTable(w io.Writer, s *tracker.Synchronizer) {
	now := time.Now()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "COMPANY", "TITLE", "STATUS", "APPLIED", "FOUNDERS", "COMMENTS")

	for _, app := range s.Applications() {
		applied := app.DateApplied
		if app.IsWeekOld(now) {
			applied += " (1+ Week Old!)"
		}
		status := string(app.Status)
		if c, ok := statusColors[app.Status]; ok {
			status = lipgloss.NewStyle().Foreground(c).Render(status)
		}
		names := make([]string, 0, len(app.Founders))
		for _, f := range app.Founders {
			names = append(names, f.Name)
		}
		t.Row(app.ID, app.CompanyName, app.JobTitle, status, applied, strings.Join(names, ", "), app.Comments)
	}
	fmt.Fprintln(w, t.Render())
}

func printMessages(w io.Writer, resp *dtos.ActionResponse) {
	if len(resp.Details) > 1 {
		for _, d := range resp.Details {
			fmt.Fprintf(w, "--- %s %s\n%s\n\n", d.Name, d.LinkedIn, d.Message)
		}
		return
	}
	if resp.Content != "" {
		fmt.Fprintln(w, resp.Content)
	}
}
