package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"fo-go/internal/app"
	"fo-go/internal/config"
	"fo-go/internal/model"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "Organize", "Undo").
func newApp(operation string) (*app.App, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

func readConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

var rootCmd = &cobra.Command{
	Use:   "fo",
	Short: "File organizer",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Path: %s\n", cfg.Organization.BasePath)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Path:    %s\n", cfg.Organization.BasePath)
		fmt.Printf("Structure:    %s\n", cfg.Organization.Structure)
		fmt.Printf("Mode:         %s\n", cfg.Safety.Mode)
		fmt.Printf("Conflicts:    %s\n", cfg.Safety.ConflictResolution)
		fmt.Printf("Backups:      %v (encrypted: %v)\n", cfg.Safety.CreateBackup, cfg.Safety.EncryptBackups)
		fmt.Printf("Categories:   %d\n", len(cfg.Organization.Categories))
		fmt.Printf("Projects:     %d pattern(s)\n", len(cfg.Organization.Projects.Patterns))
		return nil
	},
}

// pattern command
var patternCmd = &cobra.Command{
	Use:   "pattern",
	Short: "Manage project patterns",
}

var patternAddCmd = &cobra.Command{
	Use:   "add NAME KEYWORD...",
	Short: "Add a project keyword pattern",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		cfg.AddProjectPattern(args[0], args[1:])
		if err := config.Save(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Printf("Added pattern %q with %d keyword(s)\n", args[0], len(args)-1)
		return nil
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage encryption keys",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the backup encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("SetupKeys")
		if err != nil {
			return err
		}
		defer a.Close()

		pass, err := readNewPassphrase()
		if err != nil {
			return err
		}

		if err := a.SetupKeys(pass); err != nil {
			return fmt.Errorf("generating keys: %w", err)
		}

		fmt.Println("Encryption keys generated.")
		return nil
	},
}

// scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan sources for files",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Scan")
		if err != nil {
			return err
		}
		defer a.Close()

		results, err := a.Scan(context.Background())
		if err != nil {
			return err
		}

		for _, res := range results {
			fmt.Printf("%s: %d file(s), %d bytes\n", res.Source, res.Count(), res.TotalSize)
			for _, e := range res.Errors {
				fmt.Printf("  warning: %s\n", e)
			}
		}
		return nil
	},
}

// preview command
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show what an organize run would do",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("Preview")
		if err != nil {
			return err
		}
		defer a.Close()

		plans, err := a.Preview(context.Background())
		if err != nil {
			return err
		}

		if len(plans) == 0 {
			fmt.Println("Nothing to organize.")
			return nil
		}

		shown := 0
		for _, p := range plans {
			if limit > 0 && shown >= limit {
				fmt.Printf("... and %d more\n", len(plans)-shown)
				break
			}
			fmt.Println(p)
			shown++
		}
		return nil
	},
}

// organize command
var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "Organize files into the destination tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		execute, _ := cmd.Flags().GetBool("execute")
		forceDry, _ := cmd.Flags().GetBool("dry-run")

		cfg, err := readConfig()
		if err != nil {
			return err
		}

		dryRun := cfg.Safety.DryRunDefault
		if execute {
			dryRun = false
		}
		if forceDry {
			dryRun = true
		}

		a, err := app.NewApp(cfg, "Organize")
		if err != nil {
			return fmt.Errorf("initializing app: %w", err)
		}
		defer a.Close()

		var prompt app.PromptFunc
		if !dryRun && term.IsTerminal(int(os.Stdin.Fd())) {
			prompt = promptForStrategy
		}

		plans, txns, err := a.Organize(context.Background(), dryRun, prompt)
		if err != nil {
			return err
		}

		printOrganizeSummary(plans, txns, dryRun)
		return nil
	},
}

func printOrganizeSummary(plans []*model.OrganizationPlan, txns []model.Transaction, dryRun bool) {
	var skipped, failed, done int
	for _, p := range plans {
		if p.Skip {
			skipped++
		}
	}
	for _, t := range txns {
		if t.Success {
			done++
		} else {
			failed++
		}
	}

	if dryRun {
		fmt.Printf("Dry run: %d file(s) would be organized, %d skipped\n", done, skipped)
		return
	}
	fmt.Printf("Organized %d file(s), %d skipped, %d failed\n", done, skipped, failed)
}

// promptForStrategy asks the user how to handle one conflicting file.
func promptForStrategy(plan *model.OrganizationPlan) model.ConflictStrategy {
	fmt.Printf("Conflict: %s already exists (source: %s)\n", plan.Destination, plan.Record.SourcePath)
	fmt.Print("  [s]kip, [r]ename, [o]verwrite? ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return model.ConflictSkip
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "r", "rename":
		return model.ConflictRename
	case "o", "overwrite":
		return model.ConflictOverwrite
	default:
		return model.ConflictSkip
	}
}

// undo command
var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Undo the last batch of operations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("Undo")
		if err != nil {
			return err
		}
		defer a.Close()

		undone, failed, err := a.Undo(readPassphrase)
		if err != nil {
			return err
		}

		fmt.Printf("Undid %d operation(s)", undone)
		if failed > 0 {
			fmt.Printf(", %d failed", failed)
		}
		fmt.Println()
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View transaction history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		txns, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(txns) == 0 {
			fmt.Println("No transactions recorded.")
			return nil
		}

		for _, t := range txns {
			status := "ok"
			if !t.Success {
				status = "failed"
			}
			fmt.Printf("%s  %-4s  %-6s  %s -> %s\n",
				t.Timestamp.Format("2006-01-02 15:04:05"),
				t.Operation,
				status,
				t.SourcePath,
				t.Destination,
			)
		}
		return nil
	},
}

// prune command
var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old transaction history",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")

		a, err := newApp("Prune")
		if err != nil {
			return err
		}
		defer a.Close()

		removed, err := a.Prune(days)
		if err != nil {
			return err
		}

		fmt.Printf("Removed %d transaction(s) older than %d day(s)\n", removed, days)
		return nil
	},
}

// readPassphrase prompts for the encryption passphrase without echo.
func readPassphrase() (string, error) {
	fmt.Print("Passphrase: ")
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(pass), nil
}

// readNewPassphrase prompts twice and requires the entries to match.
func readNewPassphrase() (string, error) {
	fmt.Print("New passphrase: ")
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}

	fmt.Print("Confirm passphrase: ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passphrases do not match")
	}
	if len(first) == 0 {
		return "", fmt.Errorf("passphrase must not be empty")
	}
	return string(first), nil
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	patternCmd.AddCommand(patternAddCmd)
	keysCmd.AddCommand(keysInitCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(patternCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().IntP("limit", "n", 0, "Maximum number of plans to show (0 = all)")
	rootCmd.AddCommand(organizeCmd)
	organizeCmd.Flags().Bool("execute", false, "Apply changes even when dry_run_default is set")
	organizeCmd.Flags().Bool("dry-run", false, "Preview without changing anything")
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of transactions to show")
	rootCmd.AddCommand(pruneCmd)
	pruneCmd.Flags().IntP("days", "d", 30, "Remove transactions older than this many days")
}
