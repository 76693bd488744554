// Package cli wires the weft command-line interface: inspecting markup
// for declared features and running the lifecycle against it with the
// built-in feature set.
package cli

import (
	"fmt"
	"os"
	"strings"

	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/weft/internal/version"
	"github.com/arthur-debert/weft/pkg/config"
	"github.com/arthur-debert/weft/pkg/dom"
	"github.com/arthur-debert/weft/pkg/feature"
	"github.com/arthur-debert/weft/pkg/features"
	"github.com/arthur-debert/weft/pkg/hub"
	"github.com/arthur-debert/weft/pkg/logging"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity  int
		configPath string
	)

	rootCmd := &cobra.Command{
		Use:   "weft",
		Short: "A declarative feature-lifecycle runner for markup trees",
		Long: `weft attaches named behavior units ("features") to markup elements that
declare them through a marker attribute, tracks their lifecycle, and
tears them down cleanly, including every event subscription they made.`,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a weft.toml (default: probe the working directory)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newScanCmd(&configPath))
	rootCmd.AddCommand(newRunCmd(&configPath))
	rootCmd.AddCommand(newConfigCmd(&configPath))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("weft version %s\n", version.Version)
			if version.Commit != "" {
				fmt.Printf("Commit: %s\n", version.Commit)
			}
			if version.Date != "" {
				fmt.Printf("Built:  %s\n", version.Date)
			}
		},
	}
}

func newScanCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <markup-file>",
		Short: "List the elements declaring features in a markup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			doc, err := parseFile(args[0])
			if err != nil {
				return err
			}

			matched := doc.Root().FindByAttr(cfg.Attributes.Marker)
			fmt.Println(headingStyle.Render(fmt.Sprintf("%d feature-bearing element(s)", len(matched))))
			for _, el := range matched {
				line := fmt.Sprintf("  <%s>  %s",
					tagStyle.Render(el.Tag()),
					featureStyle.Render(el.Attr(cfg.Attributes.Marker)))
				if ignore := el.Attr(cfg.Attributes.Ignore); ignore != "" {
					line += "  " + skippedStyle.Render("(ignoring: "+ignore+")")
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

func newRunCmd(configPath *string) *cobra.Command {
	var (
		optionsPath string
		filter      []string
		keep        bool
	)

	cmd := &cobra.Command{
		Use:   "run <markup-file>",
		Short: "Attach the built-in features to a markup file and report the lifecycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			doc, err := parseFile(args[0])
			if err != nil {
				return err
			}

			options, err := loadOptions(optionsPath)
			if err != nil {
				return err
			}

			h := hub.New()
			mgr := feature.NewManager(feature.NewRegistry(), h,
				feature.WithAttributes(cfg.Attributes.Marker, cfg.Attributes.Ignore))
			if err := features.RegisterWithOptions(mgr.Registry(), options); err != nil {
				return err
			}

			h.On(feature.HubFeaturesInitialized, func(event string, payload interface{}) {
				n := payload.(*feature.Notification)
				fmt.Println(headingStyle.Render(fmt.Sprintf("initialized %d instance(s)", len(n.Instances))))
			})
			h.On(feature.HubFeaturesDestroyed, func(event string, payload interface{}) {
				n := payload.(*feature.Notification)
				fmt.Println(headingStyle.Render(fmt.Sprintf("destroyed %d instance(s)", len(n.Instances))))
			})

			created, err := mgr.Init(doc.Root(), filter)
			for _, instance := range created {
				fmt.Printf("  %s on <%s>\n",
					featureStyle.Render(instance.Name()),
					tagStyle.Render(instance.Node().Tag()))
			}
			if err != nil {
				return err
			}

			if !keep {
				if err := mgr.Destroy(doc.Root(), filter); err != nil {
					return err
				}
			}

			out, err := doc.WriteToString()
			if err != nil {
				return err
			}
			fmt.Println(headingStyle.Render("resulting markup"))
			fmt.Println(strings.TrimSpace(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&optionsPath, "options", "", "TOML file with per-feature registration options")
	cmd.Flags().StringSliceVar(&filter, "feature", nil, "Only attach the named feature(s)")
	cmd.Flags().BoolVar(&keep, "keep", false, "Skip the destroy pass")
	return cmd
}

func newConfigCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			fmt.Println(headingStyle.Render("attributes"))
			fmt.Printf("  marker: %s\n", cfg.Attributes.Marker)
			fmt.Printf("  ignore: %s\n", cfg.Attributes.Ignore)
			fmt.Println(headingStyle.Render("logging"))
			fmt.Printf("  verbosity: %d\n", cfg.Logging.Verbosity)
			return nil
		},
	}
}

func parseFile(path string) (*dom.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return dom.Parse(string(data))
}

// loadOptions reads per-feature registration options from a TOML file
// keyed by feature name.
func loadOptions(path string) (map[string]map[string]interface{}, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var options map[string]map[string]interface{}
	if err := gotoml.Unmarshal(data, &options); err != nil {
		return nil, fmt.Errorf("failed to parse options file %s: %w", path, err)
	}
	return options, nil
}

