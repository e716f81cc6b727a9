package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/tomz197/warzone/internal/account"
	"github.com/tomz197/warzone/internal/app"
	"github.com/tomz197/warzone/internal/config"
	"github.com/tomz197/warzone/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(openFromEnv).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// opener builds the services a command works on.
type opener func(ctx context.Context) (*app.Services, error)

func openFromEnv(ctx context.Context) (*app.Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.Open(ctx, cfg, logging.New(os.Stderr, cfg.LogLevel, "admin"))
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:          "warzone-admin",
		Short:        "Operate the WARZONE player store",
		SilenceUsage: true,
	}

	// withServices opens the store for the duration of one command.
	withServices := func(run func(cmd *cobra.Command, svcs *app.Services, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			svcs, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer svcs.Close()
			return run(cmd, svcs, args)
		}
	}

	players := &cobra.Command{Use: "players", Short: "Inspect and edit player records"}

	players.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every stored player",
		Args:  cobra.NoArgs,
		RunE: withServices(func(cmd *cobra.Command, svcs *app.Services, _ []string) error {
			list, err := svcs.Store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no players")
				return nil
			}
			rows := make([][]string, len(list))
			for i, p := range list {
				rows[i] = []string{p.Identity, strconv.Itoa(p.Level), yesNo(p.Admin), strconv.Itoa(len(p.Allies))}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"IDENTITY", "LEVEL", "ADMIN", "ALLIES"}, rows))
			return nil
		}),
	})

	players.AddCommand(&cobra.Command{
		Use:   "show <identity>",
		Short: "Show one player record",
		Args:  cobra.ExactArgs(1),
		RunE: withServices(func(cmd *cobra.Command, svcs *app.Services, args []string) error {
			p, err := svcs.Store.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("player %q: %w", args[0], err)
			}
			printPlayer(cmd, p)
			return nil
		}),
	})

	players.AddCommand(&cobra.Command{
		Use:   "set-level <identity> <level>",
		Short: "Set a player's unlocked mission level",
		Args:  cobra.ExactArgs(2),
		RunE: withServices(func(cmd *cobra.Command, svcs *app.Services, args []string) error {
			level, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("level %q is not a number", args[1])
			}
			p, err := svcs.Accounts.SetLevel(cmd.Context(), args[0], level)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now level %d\n", p.Identity, p.Level)
			return nil
		}),
	})

	players.AddCommand(&cobra.Command{
		Use:   "set-password <identity> <password>",
		Short: "Replace a player's password",
		Args:  cobra.ExactArgs(2),
		RunE: withServices(func(cmd *cobra.Command, svcs *app.Services, args []string) error {
			p, err := svcs.Accounts.SetPassword(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", p.Identity)
			return nil
		}),
	})

	ally := &cobra.Command{Use: "ally", Short: "Manage a player's allies"}
	ally.AddCommand(&cobra.Command{
		Use:   "add <identity> <ally>",
		Short: "Add an ally",
		Args:  cobra.ExactArgs(2),
		RunE: withServices(func(cmd *cobra.Command, svcs *app.Services, args []string) error {
			p, err := svcs.Accounts.AddAlly(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s allies: %s\n", p.Identity, joinOrNone(p.Allies))
			return nil
		}),
	})
	ally.AddCommand(&cobra.Command{
		Use:   "remove <identity> <ally>",
		Short: "Remove an ally",
		Args:  cobra.ExactArgs(2),
		RunE: withServices(func(cmd *cobra.Command, svcs *app.Services, args []string) error {
			p, err := svcs.Accounts.RemoveAlly(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s allies: %s\n", p.Identity, joinOrNone(p.Allies))
			return nil
		}),
	})
	players.AddCommand(ally)

	missions := &cobra.Command{
		Use:   "missions",
		Short: "Print the mission catalog",
		Args:  cobra.NoArgs,
		RunE: withServices(func(cmd *cobra.Command, svcs *app.Services, _ []string) error {
			all := svcs.Catalog.All()
			rows := make([][]string, len(all))
			for i, m := range all {
				rows[i] = []string{strconv.Itoa(m.Level), m.Name, strconv.Itoa(m.EnemyCount), m.Description}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"LEVEL", "NAME", "ENEMIES", "BRIEFING"}, rows))
			return nil
		}),
	}

	arsenal := &cobra.Command{
		Use:   "arsenal",
		Short: "Print the weapon shop price list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			weapons := account.Arsenal()
			rows := make([][]string, len(weapons))
			for i, w := range weapons {
				rows[i] = []string{w.Name, strconv.Itoa(w.Price)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"WEAPON", "PRICE (XP)"}, rows))
			return nil
		},
	}

	root.AddCommand(players, missions, arsenal)
	return root
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}

func printPlayer(cmd *cobra.Command, p account.Player) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "identity:  %s\n", p.Identity)
	fmt.Fprintf(w, "email:     %s\n", p.Email)
	fmt.Fprintf(w, "level:     %d\n", p.Level)
	fmt.Fprintf(w, "admin:     %s\n", yesNo(p.Admin))
	fmt.Fprintf(w, "password:  %s\n", yesNo(p.CredentialSecret != ""))
	fmt.Fprintf(w, "loadout:   %s\n", joinOrNone(p.Loadout))
	fmt.Fprintf(w, "allies:    %s\n", joinOrNone(p.Allies))
	if !p.CreatedAt.IsZero() {
		fmt.Fprintf(w, "created:   %s\n", p.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func joinOrNone(s []string) string {
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, ", ")
}
