package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openfiber/network-registry/pkg/plant"
)

var topologyCmd = &cobra.Command{
	Use:   "topology [city]",
	Short: "Show the plant topology for a city (or all cities)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTopology,
}

func runTopology(cmd *cobra.Command, args []string) error {
	city := "all"
	if len(args) > 0 {
		city = args[0]
	}

	client := newClient()
	var nodes []plant.TopologyNode
	if err := client.getJSON("/api/v1/topology/"+url.PathEscape(city), &nodes); err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(nodes)
	}

	if len(nodes) == 0 {
		fmt.Println("No topology nodes found.")
		return nil
	}

	headers := []string{"ID", "Type", "Name", "Children"}
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, []string{n.ID, n.Type, n.Name, strings.Join(n.Children, ",")})
	}
	printTable(headers, rows)
	return nil
}
