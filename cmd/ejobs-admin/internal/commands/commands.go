// Package commands implements the ejobs-admin subcommands.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/justsurfingit/ejobs/internal/database"
	"github.com/justsurfingit/ejobs/internal/models"
	"github.com/justsurfingit/ejobs/internal/services"
)

// NewRootCommand returns ejobs-admin with every subcommand registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ejobs-admin",
		Short: "Administrative tasks for the ejobs job board",
		Long: `ejobs-admin runs maintenance tasks against the ejobs database.
It reads the same EJOBS_* environment variables (and .env file) as the API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	InitAdminCommands(rootCmd)
	return rootCmd
}

// InitAdminCommands registers the admin subcommands on rootCmd.
func InitAdminCommands(rootCmd *cobra.Command) {
	h := &AdminCommandHandler{}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE:  h.run(h.MigrateCmd),
	}
	rootCmd.AddCommand(migrateCmd)

	createAdminCmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an ADMIN account",
		Args:  cobra.NoArgs,
		RunE:  h.run(h.CreateAdminCmd),
	}
	createAdminCmd.Flags().String("username", "", "Admin username (required)")
	createAdminCmd.Flags().String("password", "", "Admin password (defaults to $EJOBS_ADMIN_PASSWORD)")
	createAdminCmd.Flags().String("email", "", "Admin email")
	_ = createAdminCmd.MarkFlagRequired("username")
	rootCmd.AddCommand(createAdminCmd)

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard statistics as JSON",
		Args:  cobra.NoArgs,
		RunE:  h.run(h.StatsCmd),
	}
	rootCmd.AddCommand(statsCmd)

	approveCmd := &cobra.Command{
		Use:   "approve-employer <employer-id>",
		Short: "Approve an employer profile so it can post jobs",
		Args:  cobra.ExactArgs(1),
		RunE:  h.run(h.ApproveEmployerCmd),
	}
	rootCmd.AddCommand(approveCmd)

	listCmd := &cobra.Command{
		Use:   "list-jobposts",
		Short: "List job posts, newest first",
		Args:  cobra.NoArgs,
		RunE:  h.run(h.ListJobPostsCmd),
	}
	listCmd.Flags().String("q", "", "Search title or company name")
	listCmd.Flags().Uint("category", 0, "Category id")
	listCmd.Flags().String("status", "", "OPENING, CLOSED or EXPIRED")
	listCmd.Flags().Bool("featured", false, "Only featured posts")
	listCmd.Flags().String("location", "", "Location substring")
	listCmd.Flags().Int("page", 1, "Page number")
	rootCmd.AddCommand(listCmd)
}

// MigrateCmd creates or updates every table.
func (h *AdminCommandHandler) MigrateCmd(cmd *cobra.Command, _ []string) error {
	if err := database.Migrate(h.db, h.log); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
	return nil
}

// CreateAdminCmd creates an ADMIN user.
func (h *AdminCommandHandler) CreateAdminCmd(cmd *cobra.Command, _ []string) error {
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	email, _ := cmd.Flags().GetString("email")
	if password == "" {
		password = os.Getenv("EJOBS_ADMIN_PASSWORD")
	}
	if password == "" {
		return errors.New("--password or EJOBS_ADMIN_PASSWORD is required")
	}

	users := services.NewUserService(h.db, nil, nil, h.log)
	user, err := users.CreateAdmin(cmd.Context(), username, password, email)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created admin %q (id %d)\n", user.Username, user.ID)
	return nil
}

// StatsCmd prints the same report as GET /admin/stats.
func (h *AdminCommandHandler) StatsCmd(cmd *cobra.Command, _ []string) error {
	report, err := services.NewStatsService(h.db, nil, 0, h.log).Report(cmd.Context())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// ApproveEmployerCmd approves the employer profile named by its id.
func (h *AdminCommandHandler) ApproveEmployerCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid employer id %q", args[0])
	}
	profile, err := services.NewProfileService(h.db, nil, h.log).ApproveEmployer(cmd.Context(), uint(id))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "approved employer %d (%s)\n", profile.ID, profile.CompanyName)
	return nil
}

// ListJobPostsCmd lists job posts through the admin jobposts resource, so
// filters behave exactly as in the admin API.
func (h *AdminCommandHandler) ListJobPostsCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	params := map[string]string{}
	if q, _ := flags.GetString("q"); q != "" {
		params["search"] = q
	}
	if category, _ := flags.GetUint("category"); category != 0 {
		params["category_id"] = strconv.FormatUint(uint64(category), 10)
	}
	if status, _ := flags.GetString("status"); status != "" {
		params["status"] = status
	}
	if flags.Changed("featured") {
		featured, _ := flags.GetBool("featured")
		params["is_featured"] = strconv.FormatBool(featured)
	}
	if location, _ := flags.GetString("location"); location != "" {
		params["location"] = location
	}
	page, _ := flags.GetInt("page")

	admin := services.NewAdminService(h.db, nil, h.log)
	jobposts, err := admin.Resource("jobposts")
	if err != nil {
		return err
	}
	result, err := jobposts.List(cmd.Context(), params, page, h.cfg.PageSize)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCOMPANY\tSTATUS\tFEATURED\tPUBLIC")
	for _, item := range result.Items {
		post := item.(*models.JobPost)
		company := ""
		if post.Employer != nil {
			company = post.Employer.CompanyName
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\t%t\n", post.ID, post.Title, company, post.Status, post.IsFeatured, post.IsOpen())
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "page %d, %d job posts in total\n", result.Number, result.Total)
	return nil
}
