// Copyright (C) 2025, Exxafund. All rights reserved.
// See the file LICENSE for licensing terms.
package deploymentscmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/exxafund/exxa-cli/pkg/application"
	"github.com/exxafund/exxa-cli/pkg/cobrautils"
	"github.com/exxafund/exxa-cli/pkg/ux"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	tableFormat = "table"
	jsonFormat  = "json"
	yamlFormat  = "yaml"
)

var (
	app    *application.Exxa
	format string
)

// exxa deployments
func NewCmd(injectedApp *application.Exxa) *cobra.Command {
	app = injectedApp
	cmd := &cobra.Command{
		Use:   "deployments",
		Short: "List the recorded contract deployments",
		Long: `The deployments command lists the last successful deployment of each
contract made with exxa deploy.`,
		RunE: listDeployments,
		Args: cobrautils.ExactArgs(0),
	}
	cmd.Flags().StringVar(&format, "format", tableFormat, "output format, one of table, json or yaml")
	return cmd
}

func listDeployments(cmd *cobra.Command, _ []string) error {
	deployments, err := app.ReadDeployments()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(deployments))
	for name := range deployments {
		names = append(names, name)
	}
	sort.Strings(names)
	sorted := make([]application.Deployment, 0, len(names))
	for _, name := range names {
		sorted = append(sorted, deployments[name])
	}
	out := cmd.OutOrStdout()
	switch format {
	case jsonFormat:
		bs, err := json.MarshalIndent(sorted, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(bs))
		return err
	case yamlFormat:
		bs, err := yaml.Marshal(sorted)
		if err != nil {
			return err
		}
		_, err = out.Write(bs)
		return err
	case tableFormat:
	default:
		return cobrautils.NewUsageError(cmd, fmt.Errorf("invalid format %q", format))
	}
	if len(sorted) == 0 {
		ux.Logger.PrintToUser("No deployments recorded yet. Run exxa deploy first.")
		return nil
	}
	t := ux.DefaultTable(
		out,
		"Deployments",
		table.Row{"Contract", "Address", "Tx Hash", "Backend", "RPC URL", "Deployed At"},
	)
	for _, d := range sorted {
		deployedAt := ""
		if !d.DeployedAt.IsZero() {
			deployedAt = d.DeployedAt.Format(time.RFC3339)
		}
		t.AppendRow(table.Row{d.ContractName, d.Address, d.TxHash, d.Backend, d.RPCURL, deployedAt})
	}
	t.Render()
	return nil
}
