package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the API declaration of the item service",
		Example: strings.TrimSpace(`  swagdoc dump --pretty
  swagdoc dump --format yaml --out spec.yaml`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return err
			}
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "json" && format != "yaml" {
				return newUsageError(fmt.Sprintf("unsupported format %q (want json or yaml)\n\n%s", format, cmd.UsageString()))
			}

			pretty, err := cmd.Flags().GetBool("pretty")
			if err != nil {
				return err
			}
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			app, err := newApp(cfg)
			if err != nil {
				return err
			}

			doc, err := app.Docs.BuildRouter(app.Router)
			if err != nil {
				return err
			}

			var data []byte
			switch {
			case format == "yaml":
				data, err = yaml.Marshal(doc)
			case pretty:
				data, err = json.MarshalIndent(doc, "", "    ")
			default:
				data, err = json.Marshal(doc)
			}
			if err != nil {
				return fmt.Errorf("encode %s: %w", format, err)
			}
			if format == "json" {
				data = append(data, '\n')
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(out, data, 0o644)
		},
	}

	flags := cmd.Flags()
	flags.String("format", "json", "Output format: json or yaml")
	flags.Bool("pretty", false, "Indent JSON output")
	flags.StringP("out", "o", "", "Write to a file instead of stdout")
	flags.String("base-url", "", "Base URL of the documented API (default /)")
	flags.String("api-version", "", "Version of the documented API")
	flags.StringSlice("enable-methods", nil, "HTTP methods to document")

	return cmd
}
