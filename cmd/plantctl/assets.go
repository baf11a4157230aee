package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/openfiber/network-registry/pkg/plant"
)

var (
	assetTypeFlag   string
	assetStatusFlag string
)

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List inventory assets",
	RunE:  runAssets,
}

func init() {
	assetsCmd.Flags().StringVar(&assetTypeFlag, "type", "", "Filter by asset type (ONT, ROUTER, SPLITTER, FDH)")
	assetsCmd.Flags().StringVar(&assetStatusFlag, "status", "", "Filter by status (AVAILABLE, ASSIGNED)")
}

func runAssets(cmd *cobra.Command, args []string) error {
	q := url.Values{}
	if assetTypeFlag != "" {
		q.Set("type", assetTypeFlag)
	}
	if assetStatusFlag != "" {
		q.Set("status", assetStatusFlag)
	}
	path := "/api/v1/assets/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	client := newClient()
	var assets []plant.Asset
	if err := client.getJSON(path, &assets); err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(assets)
	}

	headers := []string{"ID", "Type", "Serial", "Model", "Status", "Customer"}
	rows := make([][]string, 0, len(assets))
	for _, a := range assets {
		customer := ""
		if a.AssignedToCustomerID != nil {
			customer = fmt.Sprintf("%d", *a.AssignedToCustomerID)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", a.ID),
			string(a.AssetType),
			a.SerialNumber,
			a.Model,
			string(a.Status),
			customer,
		})
	}
	printTable(headers, rows)
	return nil
}
