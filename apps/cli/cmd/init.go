package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/abdul-hamid-achik/restmd/packages/core/config"
	"github.com/spf13/cobra"
)

const exampleRequests = `@host = https://httpbin.org
@token = change-me

### Fetch JSON
GET {{host}}/json
Accept: application/json

### Echo a body
POST {{host}}/anything
Content-Type: application/json
Authorization: Bearer {{token}}

{"hello": "restmd"}

### Query string on continuation lines
GET {{host}}/get
    ?page=1
    &limit=10
`

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a config file and an example .http file",
	Long: heredoc.Doc(`
		Write .restmd.yaml with the default settings and requests.http with a
		few example requests. Existing files are left alone unless --force is
		given.
	`),
	Args: cobra.MaximumNArgs(1),
	RunE: initCommand,
}

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing files")
}

func initCommand(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	out := cmd.OutOrStdout()

	configPath := filepath.Join(dir, config.ConfigFilenames[0])
	if writable(configPath) {
		if err := config.DefaultConfig().SaveConfig(configPath); err != nil {
			return &exitError{code: ExitConfigError, err: fmt.Errorf("failed to write config: %w", err)}
		}
		fmt.Fprintf(out, "Created %s\n", configPath)
	} else {
		fmt.Fprintf(out, "Skipped %s (exists, use --force to overwrite)\n", configPath)
	}

	requestsPath := filepath.Join(dir, "requests.http")
	if writable(requestsPath) {
		if err := os.WriteFile(requestsPath, []byte(exampleRequests), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", requestsPath, err)
		}
		fmt.Fprintf(out, "Created %s\n", requestsPath)
	} else {
		fmt.Fprintf(out, "Skipped %s (exists, use --force to overwrite)\n", requestsPath)
	}

	return nil
}

func writable(path string) bool {
	if initForce {
		return true
	}
	_, err := os.Stat(path)
	return os.IsNotExist(err)
}
